package rescale

import (
	"context"
	"slices"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/matzehuels/neuroc/pkg/errors"
	pkgio "github.com/matzehuels/neuroc/pkg/io"
)

// humanLayers are the only entries allowed in the human folder.
var humanLayers = []string{"L1", "L2", "L3", "L4", "L5", "L6"}

// ratExtensions is the lookup order for a neuronDB name in the rat folder.
var ratExtensions = []string{".asc", ".swc", ".h5", ".ASC", ".SWC", ".H5"}

// RatCell is a rat morphology listed in neuronDB.xml and found on disk.
type RatCell struct {
	Entry
	URL string
}

// Catalog indexes the cells of a human folder and a rat folder.
type Catalog struct {
	// Human maps layer, then mtype, to cell URLs. The mtype of a human cell
	// is the part of its file name before the first '_'.
	Human map[string]map[string][]string
	// HumanLayer maps layer to every cell URL of that layer.
	HumanLayer map[string][]string
	// Rats lists rat cells in neuronDB order.
	Rats []RatCell
}

// Group is a set of human cells and the rat cells considered equivalent.
type Group struct {
	Layer  string
	MType  string
	Humans []string
	Rats   []string
}

// Missing is a rat mtype named by the mapping that matched no rat cell.
type Missing struct {
	Layer string
	Human string
	Rat   string
}

// ValidateFolders checks that humanDir only holds layer folders (L1 to L6)
// and that ratDir holds a neuronDB.xml.
func ValidateFolders(ctx context.Context, fs afs.Service, humanDir, ratDir string) error {
	names, err := pkgio.ListNames(ctx, fs, humanDir)
	if err != nil {
		return err
	}
	for _, name := range names {
		if !slices.Contains(humanLayers, strings.ToUpper(name)) {
			return errors.New(errors.ErrCodeInvalidInput,
				"the content of the human folder %s should only be sub-folders with a layer name (L1, L2, ...); found: %s",
				humanDir, name)
		}
	}
	ok, err := fs.Exists(ctx, url.Join(ratDir, NeuronDBFile))
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(errors.ErrCodeFileNotFound, "%s not found in the rat folder: %s", NeuronDBFile, ratDir)
	}
	return nil
}

// LoadCatalog lists both folders. Rat cells whose file cannot be found are
// skipped.
func LoadCatalog(ctx context.Context, fs afs.Service, humanDir, ratDir string) (*Catalog, error) {
	c := &Catalog{
		Human:      make(map[string]map[string][]string),
		HumanLayer: make(map[string][]string),
	}

	layers, err := pkgio.ListDirs(ctx, fs, humanDir)
	if err != nil {
		return nil, err
	}
	for _, layer := range layers {
		cells, err := pkgio.ListMorphologies(ctx, fs, url.Join(humanDir, layer))
		if err != nil {
			return nil, err
		}
		c.HumanLayer[layer] = cells
		c.Human[layer] = make(map[string][]string)
		for _, cell := range cells {
			mtype, _, _ := strings.Cut(pkgio.Stem(cell), "_")
			c.Human[layer][mtype] = append(c.Human[layer][mtype], cell)
		}
	}

	data, err := pkgio.Download(ctx, fs, url.Join(ratDir, NeuronDBFile))
	if err != nil {
		return nil, err
	}
	entries, err := ParseNeuronDB(data)
	if err != nil {
		return nil, err
	}
	files, err := pkgio.ListNames(ctx, fs, ratDir)
	if err != nil {
		return nil, err
	}
	c.Rats = resolveRats(ratDir, entries, files)
	return c, nil
}

func resolveRats(ratDir string, entries []Entry, files []string) []RatCell {
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f] = true
	}
	var out []RatCell
	for _, e := range entries {
		for _, ext := range ratExtensions {
			if present[e.Name+ext] {
				out = append(out, RatCell{Entry: e, URL: url.Join(ratDir, e.Name+ext)})
				break
			}
		}
	}
	return out
}

// Match groups human and rat cells according to mapping, in mapping order.
// Groups with neither human nor rat cells are dropped. Rat mtypes that match
// nothing are reported as Missing.
func (c *Catalog) Match(mapping Mapping) ([]Group, []Missing) {
	byMType := make(map[string][]string)
	for _, r := range c.Rats {
		byMType[r.BaseMType()] = append(byMType[r.BaseMType()], r.URL)
	}

	var groups []Group
	var missing []Missing
	for _, layer := range mapping {
		for _, e := range layer.Entries {
			g := Group{Layer: layer.Layer, MType: e.Human}
			if e.HumanAll() {
				g.Humans = c.HumanLayer[layer.Layer]
			} else {
				g.Humans = c.Human[layer.Layer][e.Human]
			}

			if e.RatsAll() {
				for _, r := range c.Rats {
					if r.InLayer(layer.Layer) {
						g.Rats = append(g.Rats, r.URL)
					}
				}
				groups = append(groups, g)
				continue
			}

			for _, mtype := range e.Rats {
				name := MTypeName(layer.Layer, mtype)
				cells, ok := byMType[name]
				if !ok {
					missing = append(missing, Missing{Layer: layer.Layer, Human: e.Human, Rat: name})
					continue
				}
				g.Rats = append(g.Rats, cells...)
			}
			if len(g.Humans) > 0 || len(g.Rats) > 0 {
				groups = append(groups, g)
			}
		}
	}
	return groups, missing
}
