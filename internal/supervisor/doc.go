// Package supervisor keeps a named audio device connected. It scans the
// device registry until the device appears, opens a connection, waits for
// that connection to close, and starts over. Failures only end the current
// attempt; the loop runs until its context is cancelled.
package supervisor
