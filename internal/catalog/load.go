package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-ports/ecorewards/internal/models"
)

// ErrInvalidDataset is returned when a listing dataset breaks the schema.
var ErrInvalidDataset = errors.New("invalid listing dataset")

// Load reads a YAML or JSON listing dataset from path.
func Load(path string) ([]models.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load: %w", err)
	}
	listings, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog.Load %s: %w", path, err)
	}
	return listings, nil
}

// Parse decodes a dataset. The document is either a sequence of listings or
// a mapping with a "listings" sequence. Every listing field is required.
func Parse(data []byte) ([]models.Listing, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidDataset)
	}

	seq := root.Content[0]
	if seq.Kind == yaml.MappingNode {
		seq = mappingValue(seq, "listings")
	}
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: expected a sequence of listings", ErrInvalidDataset)
	}

	out := make([]models.Listing, 0, len(seq.Content))
	for i, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: listing %d is not a mapping", ErrInvalidDataset, i)
		}
		for _, field := range models.ListingFields {
			if mappingValue(item, field) == nil {
				return nil, fmt.Errorf("%w: listing %d: missing field %q", ErrInvalidDataset, i, field)
			}
		}
		var l models.Listing
		if err := item.Decode(&l); err != nil {
			return nil, fmt.Errorf("%w: listing %d: %w", ErrInvalidDataset, i, err)
		}
		out = append(out, l)
	}

	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks value constraints: non-empty unique IDs, known
// categories, rating in [0,5], non-negative distance and points.
func Validate(listings []models.Listing) error {
	seen := make(map[string]struct{}, len(listings))
	for i := range listings {
		l := &listings[i]
		switch {
		case l.ID == "":
			return fmt.Errorf("%w: listing %d: empty id", ErrInvalidDataset, i)
		case !l.Category.IsValid():
			return fmt.Errorf("%w: listing %s: unknown category %q", ErrInvalidDataset, l.ID, l.Category)
		case l.Rating < 0 || l.Rating > 5:
			return fmt.Errorf("%w: listing %s: rating %v out of range", ErrInvalidDataset, l.ID, l.Rating)
		case l.RewardPoints < 0:
			return fmt.Errorf("%w: listing %s: negative reward points", ErrInvalidDataset, l.ID)
		case l.DistanceKm < 0:
			return fmt.Errorf("%w: listing %s: negative distance", ErrInvalidDataset, l.ID)
		}
		if _, dup := seen[l.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidDataset, l.ID)
		}
		seen[l.ID] = struct{}{}
	}
	return nil
}

// mappingValue returns the value node for key, or nil.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}
