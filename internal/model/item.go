package model

import "strings"

// ItemKind distinguishes files from folders in a store listing.
type ItemKind string

// Item kinds.
const (
	KindFile   ItemKind = "file"
	KindFolder ItemKind = "folder"
)

// Item is a single entry in a watched location: a file or folder that
// the classifier can route into a category folder. ID is the store's
// handle for the item (a path locally, a file ID on Drive).
type Item struct {
	ID     string
	Name   string
	Parent string
	Kind   ItemKind
}

// IsFolder reports whether the item is a folder.
func (i Item) IsFolder() bool {
	return i.Kind == KindFolder
}

// Ext returns the lowercased extension of the item name without the
// leading dot. Folders and names without a dot report "". Dotfiles
// like ".env" report "env".
func (i Item) Ext() string {
	if i.Kind == KindFolder {
		return ""
	}
	idx := strings.LastIndex(i.Name, ".")
	if idx < 0 || idx == len(i.Name)-1 {
		return ""
	}
	return strings.ToLower(i.Name[idx+1:])
}
