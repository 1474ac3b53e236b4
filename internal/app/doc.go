// Package app wires MDD documents to the storage they come from.
//
// An Editor owns one Input and the engine.Document built from it. Its
// lifecycle is a sequence of plain calls:
//
//	in, _ := app.NewFileInput("letter.mdd")
//	ed := app.NewEditor(in, app.WithEditorLogger(logger))
//	if err := ed.Open(); err != nil {
//	    return err
//	}
//	defer ed.Close()
//
//	doc := ed.Document()
//	doc.Insert(0, "Hello ")
//	ed.Save()
//
// Reload picks up external changes to the input through
// engine.Document.SetText, so only the changed spans are rescanned.
//
// The package also provides the slog logger factory used by the command
// line tools.
package app
