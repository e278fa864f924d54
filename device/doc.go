// Package device implements lighting fabrics for the engine.
//
// Included fabrics:
//   - Memory: keeps flushed frames in memory, for tests and dry runs.
//   - Terminal: draws every group as a row of colored blocks on a terminal.
//   - ArtNet: sends each group as RGB slots of an ArtDMX universe over UDP,
//     followed by ArtSync so nodes latch all universes together.
//
// A Layout describes the groups (one per audio channel) and is usually read
// from a YAML file.
package device
