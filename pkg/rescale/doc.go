// Package rescale scales rat morphologies to human dimensions.
//
// # Overview
//
// A mapping file pairs human mtypes with rat mtypes, layer by layer. For each
// pair, dendritic features are measured on every human and every rat cell
// ([Measure]); the ratio of the mean human features to the mean rat features
// gives three [Factors]. Each rat cell of the group is then scaled along Y,
// across X and Z, and in diameter ([ScaleCell]) and written under a name that
// records the factors ([OutputName]).
//
// # Folders
//
// The human folder holds one sub-folder per layer (L1 to L6) whose files are
// named "{mtype}_...". The rat folder holds a neuronDB.xml index and the
// files it lists. [ValidateFolders] checks both layouts, [LoadCatalog] indexes
// them and [Catalog.Match] turns a [Mapping] into groups.
package rescale
