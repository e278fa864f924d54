// Package effects provides the LED renderers driven by the envelope level.
//
// Included renderers:
//   - Bars: a bar growing from the tip of the strip, one position per unit of level.
//   - Pulse: the whole strip brightens uniformly with the level.
//   - DoubleBars: a bar growing symmetrically outward from the middle of the strip.
//
// Renderers are stateless values. Channel state lives in the engine so that
// switching renderers keeps hold and fall continuity. Every renderer writes
// each position of the caller's buffer in place and never allocates.
package effects
