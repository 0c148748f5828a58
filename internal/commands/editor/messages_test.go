package editorcmd

import "testing"

func TestMessagesRejectBlankDocumentID(t *testing.T) {
	messages := []interface{ Validate() error }{
		OpenNoteCommand{},
		SaveNoteCommand{DocumentID: "   "},
		CloseNoteCommand{},
		UpdateLineCommand{},
		AppendLineCommand{},
		DeleteLineCommand{},
		MergeLineUpCommand{},
		PasteCommand{},
	}
	for _, msg := range messages {
		if err := msg.Validate(); err == nil {
			t.Fatalf("%T: expected validation error", msg)
		}
	}
}

func TestMessagesRejectNegativeIndexes(t *testing.T) {
	messages := []interface{ Validate() error }{
		UpdateLineCommand{DocumentID: "doc", Index: -1},
		DeleteLineCommand{DocumentID: "doc", Index: -1},
		MergeLineUpCommand{DocumentID: "doc", Index: -1},
		PasteCommand{DocumentID: "doc", Index: -1},
		AppendLineCommand{DocumentID: "doc", After: -2},
	}
	for _, msg := range messages {
		if err := msg.Validate(); err == nil {
			t.Fatalf("%T: expected validation error", msg)
		}
	}
}

func TestMessagesAcceptValidInput(t *testing.T) {
	messages := []interface{ Validate() error }{
		OpenNoteCommand{DocumentID: "doc"},
		UpdateLineCommand{DocumentID: "doc", Index: 0, Content: ""},
		AppendLineCommand{DocumentID: "doc", After: -1},
		PasteCommand{DocumentID: "doc", Index: 3, Pasted: "x"},
	}
	for _, msg := range messages {
		if err := msg.Validate(); err != nil {
			t.Fatalf("%T: unexpected error %v", msg, err)
		}
	}
}
