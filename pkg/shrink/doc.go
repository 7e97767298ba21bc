// Package shrink shortens or lengthens the axon of a morphology between its
// dendritic and axonal annotation intervals.
//
// # Overview
//
// The axon crosses a gap between the top (or bottom) of the dendrite
// annotation and the start of the axon annotation. Shrinking replaces the part
// of the main axon branch inside that gap by a straight vertical bridge of a
// chosen height:
//
//  1. The main branch is the path from the axon root to the section with the
//     greatest path length ([SectionPathLengths]).
//  2. Walking down the main branch, the first section that ends past the cut
//     plane is trimmed at the plane ([CutBranch]) and its descendants are
//     removed.
//  3. A two-point vertical section of the requested height is appended
//     ([AddVerticalSegment]).
//  4. The first later section that ends past the graft plane is trimmed to
//     start at that plane, translated onto the end of the bridge and appended
//     with all of its descendants ([GraftBranch]).
//
// [CutAndGraft] runs the four steps on a copy and never mutates its input.
// Whether the axon grows upward or downward from the dendrite is read from
// the annotation ([CoordinatesFromRules]); every comparison flips with it.
//
// # Failures
//
// A morphology without an axon, with several axons, or whose main branch
// never crosses a plane fails with one of the coded errors for which
// errors.IsExpected reports true. Batch drivers record those and move on.
package shrink
