// Package editor owns the single change-notice document being edited and
// applies named actions to it through a fixed dispatch table. The HTTP
// service and the CLI both drive the document through a Controller.
package editor
