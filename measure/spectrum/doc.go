// Package spectrum estimates the dominant frequency and spectral shape of
// audio blocks. It backs the analyze command, which prints these values next
// to the envelope levels so gain and hold can be tuned against real material.
package spectrum
