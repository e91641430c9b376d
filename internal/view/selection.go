package view

// Selection tracks which asset card is expanded. At most one item is
// expanded at a time; selecting a second item collapses the first, and
// selecting the expanded item collapses it. Purely a view concern.
type Selection struct {
	expanded string
}

// Select toggles expansion for the given asset and returns whether the
// asset is expanded afterwards.
func (s *Selection) Select(assetID string) bool {
	if s.expanded == assetID {
		s.expanded = ""
		return false
	}
	s.expanded = assetID
	return true
}

// Expanded returns the currently expanded asset, if any.
func (s *Selection) Expanded() (string, bool) {
	return s.expanded, s.expanded != ""
}

// Collapse clears the expansion.
func (s *Selection) Collapse() {
	s.expanded = ""
}

// IsExpanded reports whether the given asset is the expanded one.
func (s *Selection) IsExpanded(assetID string) bool {
	return s.expanded != "" && s.expanded == assetID
}
