// Package viz provides the live terminal view of an acquisition session.
//
// The view is a Bubble Tea program that owns the session buffer. On every
// tick it drains the samples the acquisition worker has queued and redraws
// the whole buffer as one connected line.
//
// # Key Bindings
//
//	c     - Connect to the selected port (clears the buffer)
//	d     - Disconnect
//	x     - Clear the buffer and restart time at zero
//	a     - Toggle auto-scale and the fixed angle range
//	s     - Save the buffer to CSV (and MAT)
//	r     - Refresh the port list
//	tab   - Select the next port
//	v     - Toggle logging of every parsed sample
//	q     - Disconnect and quit
package viz
