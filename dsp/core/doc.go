// Package core holds small numeric and buffer helpers shared by the level
// follower, the effect renderers and the analysis code.
package core
