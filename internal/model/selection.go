package model

import "path/filepath"

// Selection is an ordered set of user selected paths (files or directories).
// Duplicates are ignored and insertion order is preserved.
// Selection is not safe for concurrent use, it's owned by the frontend.
type Selection struct {
	paths []string
	index map[string]struct{}
}

// NewSelection returns a new selection with the received paths.
func NewSelection(paths ...string) *Selection {
	s := &Selection{index: map[string]struct{}{}}
	s.Add(paths...)
	return s
}

// Add adds paths to the selection and returns the number of paths that were new.
// Empty paths are ignored.
func (s *Selection) Add(paths ...string) int {
	if s.index == nil {
		s.index = map[string]struct{}{}
	}

	added := 0
	for _, p := range paths {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if _, ok := s.index[p]; ok {
			continue
		}
		s.index[p] = struct{}{}
		s.paths = append(s.paths, p)
		added++
	}

	return added
}

// Remove removes a path from the selection, returns false if it wasn't selected.
func (s *Selection) Remove(path string) bool {
	path = filepath.Clean(path)
	if _, ok := s.index[path]; !ok {
		return false
	}
	delete(s.index, path)

	for i, p := range s.paths {
		if p == path {
			s.paths = append(s.paths[:i], s.paths[i+1:]...)
			break
		}
	}

	return true
}

// Contains returns true if the path is selected.
func (s *Selection) Contains(path string) bool {
	_, ok := s.index[filepath.Clean(path)]
	return ok
}

// Paths returns a copy of the selected paths in insertion order.
func (s *Selection) Paths() []string {
	paths := make([]string, len(s.paths))
	copy(paths, s.paths)
	return paths
}

// Len returns the number of selected paths.
func (s *Selection) Len() int { return len(s.paths) }

// WorkItemList is the flattened and ordered list of file paths a run processes.
type WorkItemList []string
