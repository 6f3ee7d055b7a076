package hdf5

import (
	"strings"

	"github.com/marrow-data/hdf5decode/internal/btree"
	"github.com/marrow-data/hdf5decode/internal/hdf5err"
	"github.com/marrow-data/hdf5decode/internal/heap"
	"github.com/marrow-data/hdf5decode/internal/message"
	"github.com/marrow-data/hdf5decode/internal/object"
	"github.com/marrow-data/hdf5decode/internal/superblock"
)

// Group is a node in the object graph: every object this decoder
// opens (whether it turns out to hold a symbol table, links, or a
// dataset's four data messages) is represented as a Group. Value
// promotes it to a Variable when the necessary messages are present.
type Group struct {
	file      *File
	path      string
	header    *object.Header
	rootEntry *superblock.RootEntry // set only for the root group

	children map[string]*Group
	attrs    map[string]*Attribute
}

// Name returns the last path component, or "" for the root.
func (g *Group) Name() string {
	if g.path == "" {
		return ""
	}
	i := strings.LastIndexByte(g.path, '/')
	return g.path[i+1:]
}

// Path returns this group's full path; the root's path is "".
func (g *Group) Path() string { return g.path }

func childPath(parentPath, name string) string {
	if parentPath == "" {
		return "/" + name
	}
	return parentPath + "/" + name
}

// Children returns the named child nodes of this group, decoded on
// first access and cached thereafter. Only hard-linked members are
// surfaced; soft and external links are out of scope.
func (g *Group) Children() (map[string]*Group, error) {
	if g.children != nil {
		return g.children, nil
	}

	links := g.header.GetMessages(message.TypeLink)
	entries := make(map[string]uint64)
	if len(links) > 0 {
		for _, m := range links {
			link := m.(*message.Link)
			if link.IsHard() {
				entries[link.Name] = link.ObjectAddress
			}
		}
	} else if symTable := g.header.SymbolTable(); symTable != nil {
		if err := g.collectV1(symTable.BTreeAddress, symTable.LocalHeapAddress, entries); err != nil {
			return nil, err
		}
	} else if g.rootEntry != nil && g.rootEntry.BTreeAddress != 0 {
		if err := g.collectV1(g.rootEntry.BTreeAddress, g.rootEntry.LocalHeapAddress, entries); err != nil {
			return nil, err
		}
	} else if info, ok := g.header.GetMessage(message.TypeLinkInfo).(*message.Unknown); ok {
		// A defined fractal-heap address means the links are held in
		// dense storage (fractal heap + v2 B-tree), which is not read.
		data, off, size := info.Data(), 2, g.file.widths.OffsetSize
		if len(data) > 1 && data[1]&0x01 != 0 {
			off += 8 // maximum creation index
		}
		if len(data) >= off+size {
			for _, b := range data[off : off+size] {
				if b != 0xFF {
					return nil, &hdf5err.UnsupportedBTreeType{Type: 2}
				}
			}
		}
	}

	children := make(map[string]*Group, len(entries))
	for name, addr := range entries {
		hdr, err := g.file.openHeaderAt(addr)
		if err != nil {
			return nil, err
		}
		children[name] = &Group{file: g.file, path: childPath(g.path, name), header: hdr}
	}
	g.children = children
	return children, nil
}

func (g *Group) collectV1(btreeAddr, localHeapAddr uint64, out map[string]uint64) error {
	localHeap, err := heap.ReadLocalHeap(g.file.r, localHeapAddr)
	if err != nil {
		return err
	}
	entries, err := btree.ReadGroupEntries(g.file.r, btreeAddr, localHeap)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Name == "" || e.Name == "." {
			continue
		}
		out[e.Name] = e.ObjectAddress
	}
	return nil
}

// Group navigates a "/"-separated relative path to a descendant node.
func (g *Group) Group(path string) (*Group, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return g, nil
	}
	current := g
	for _, name := range strings.Split(path, "/") {
		if _, err := current.Value(); err == nil {
			return nil, ErrNotGroup
		}
		children, err := current.Children()
		if err != nil {
			return nil, err
		}
		child, ok := children[name]
		if !ok {
			return nil, ErrNotFound
		}
		current = child
	}
	return current, nil
}

// Attributes returns this node's attributes by name, built on first
// access and cached. Values are decoded (and variable-length types
// resolved through the global heap) by Attribute.Value.
func (g *Group) Attributes() (map[string]*Attribute, error) {
	if g.attrs != nil {
		return g.attrs, nil
	}
	attrs := make(map[string]*Attribute)
	for _, m := range g.header.GetMessages(message.TypeAttribute) {
		msg := m.(*message.Attribute)
		attrs[msg.Name] = &Attribute{file: g.file, msg: msg}
	}
	g.attrs = attrs
	return attrs, nil
}

// Value builds a Variable from this node's dataset messages, or
// returns ErrNotVariable if the dataspace, datatype or data layout
// message is absent. The filter pipeline message is optional.
func (g *Group) Value() (*Variable, error) {
	ds := g.header.Dataspace()
	dt := g.header.Datatype()
	dl := g.header.DataLayout()
	if ds == nil || dt == nil || dl == nil {
		return nil, ErrNotVariable
	}
	return newVariable(g.file, g.path, ds, dt, dl, g.header.FilterPipeline()), nil
}

// Walk visits g and every descendant, depth-first, calling fn with
// each node's path and (when it decodes as one) its Variable.
func (g *Group) Walk(fn func(path string, group *Group, variable *Variable) error) error {
	variable, err := g.Value()
	if err == ErrNotVariable {
		variable = nil
	} else if err != nil {
		return err
	}
	if err := fn(g.path, g, variable); err != nil {
		return err
	}
	if variable != nil {
		return nil
	}
	children, err := g.Children()
	if err != nil {
		return err
	}
	for _, name := range sortedKeys(children) {
		if err := children[name].Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]*Group) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
