// Package resp frames and unframes RESP2 values.
//
// Decode and Encode work on in-memory byte slices and keep no state between
// calls. A decode attempt ends in one of three ways: a complete Value with the
// number of bytes it used, ErrIncomplete when the input is an unfinished
// frame, or a *ProtocolError when the input can never become a frame.
//
// RespReader and Encoder adapt the codec to io.Reader and io.Writer streams.
package resp
