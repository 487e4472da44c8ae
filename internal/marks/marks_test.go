package marks_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/ecorewards/internal/marks"
)

func TestMarks_Toggle(t *testing.T) {
	c := qt.New(t)

	c.Run("toggle twice restores membership", func(c *qt.C) {
		m := marks.New()
		m.ToggleFavorite("keep")
		before := m.List(marks.Favorite)

		c.Assert(m.ToggleFavorite("l1"), qt.IsTrue)
		c.Assert(m.IsFavorite("l1"), qt.IsTrue)
		c.Assert(m.ToggleFavorite("l1"), qt.IsFalse)
		c.Assert(m.List(marks.Favorite), qt.DeepEquals, before)

		c.Assert(m.ToggleFavorite("keep"), qt.IsFalse)
		c.Assert(m.ToggleFavorite("keep"), qt.IsTrue)
		c.Assert(m.List(marks.Favorite), qt.DeepEquals, before)
	})

	c.Run("sets are independent", func(c *qt.C) {
		var m marks.Marks
		m.ToggleSaved("l2")
		c.Assert(m.IsSaved("l2"), qt.IsTrue)
		c.Assert(m.IsFavorite("l2"), qt.IsFalse)
		c.Assert(m.List(marks.Favorite), qt.HasLen, 0)
	})

	c.Run("list is sorted", func(c *qt.C) {
		m := marks.New()
		for _, id := range []string{"c", "a", "b"} {
			m.ToggleSaved(id)
		}
		c.Assert(m.List(marks.Saved), qt.DeepEquals, []string{"a", "b", "c"})
	})
}

func TestParseKind(t *testing.T) {
	c := qt.New(t)

	k, ok := marks.ParseKind("saved")
	c.Assert(ok, qt.IsTrue)
	c.Assert(k, qt.Equals, marks.Saved)

	_, ok = marks.ParseKind("pinned")
	c.Assert(ok, qt.IsFalse)
}
