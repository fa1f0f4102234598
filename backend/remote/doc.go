// Package remote serves the fractal viewer over WebSocket.
//
// A Stream is a surface.Surface that encodes every presented frame as PNG
// and pushes it to all connected clients, preceded by a JSON status message
// carrying the title. Clients send input as JSON messages which are
// translated to fractal events and posted to the attached Viewer:
//
//	{"type":"wheel","notches":-1,"x":500,"y":350}
//	{"type":"press","button":0,"x":10,"y":20}
//	{"type":"move","x":40,"y":60}
//	{"type":"release","button":0,"x":40,"y":60}
//	{"type":"key","key":"r"}
//	{"type":"key","key":"Escape"}
//
// Buttons follow the DOM MouseEvent numbering: 0 left, 1 middle, 2 right.
package remote
