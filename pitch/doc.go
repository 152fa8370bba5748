// Package pitch implements monophonic pitch detection over sample windows
// using the YIN difference function with an autocorrelation fallback.
//
// Detection is a pure function: it holds no state between calls and is safe
// to run from any goroutine. It is not real-time code; analysis runs at
// import time on the control context.
//
// A low-confidence or silent input is not an error. The detector returns a
// Result with Pitched=false and callers are expected to handle it.
package pitch
