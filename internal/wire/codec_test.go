package wire

import "testing"

func TestEncodeRequest_MoveWindows(t *testing.T) {
	req := MoveWindows{Items: []MoveItem{
		{ID: 1, X: 100, Y: 200},
		{ID: 2, X: -50, Y: -75},
	}}

	got, err := EncodeRequest(req)
	if err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}
	want := `{"MoveWindows":[{"id":1,"x":100,"y":200},{"id":2,"x":-50,"y":-75}]}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}

	decoded, err := DecodeRequest(got)
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	if got, want := decoded.(MoveWindows), req; len(got.Items) != len(want.Items) || got.Items[0] != want.Items[0] || got.Items[1] != want.Items[1] {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestEncodeRequest_ResizeWindows(t *testing.T) {
	req := ResizeWindows{Items: []ResizeItem{
		{ID: 1, Width: 800, Height: 600},
		{ID: 2, Width: 1024, Height: 768},
	}}

	got, err := EncodeRequest(req)
	if err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}
	want := `{"ResizeWindows":[{"id":1,"width":800,"height":600},{"id":2,"width":1024,"height":768}]}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestEncodeRequest_ChangeVisibility(t *testing.T) {
	req := ChangeVisibility{Items: []VisibilityItem{
		{ID: 1, Visible: true},
		{ID: 2, Visible: false},
	}}

	got, err := EncodeRequest(req)
	if err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}
	want := `{"ChangeVisibility":[{"id":1,"visible":true},{"id":2,"visible":false}]}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestEncodeRequest_ChangeZIndex(t *testing.T) {
	req := ChangeZIndex{Items: []ZIndexItem{
		{ID: 1, ZIndex: 10},
		{ID: 2, ZIndex: 20},
	}}

	got, err := EncodeRequest(req)
	if err != nil {
		t.Fatalf("EncodeRequest: %v", err)
	}
	want := `{"ChangeZIndex":[{"id":1,"zindex":10},{"id":2,"zindex":20}]}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestEncodeRequest_UnitVariants(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"ListNewWindows", ListNewWindows{}, `"ListNewWindows"`},
		{"ListVisibleWindows", ListVisibleWindows{}, `"ListVisibleWindows"`},
		{"ListHiddenWindows", ListHiddenWindows{}, `"ListHiddenWindows"`},
		{"Commit", Commit{}, `"Commit"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeRequest(tt.req)
			if err != nil {
				t.Fatalf("EncodeRequest: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
			decoded, err := DecodeRequest(got)
			if err != nil {
				t.Fatalf("DecodeRequest: %v", err)
			}
			if decoded != tt.req {
				t.Errorf("round-trip mismatch: got %#v, want %#v", decoded, tt.req)
			}
		})
	}
}

func TestEncodeResponse_NewWindows(t *testing.T) {
	resp := NewWindows{Windows: []WindowInfo{
		{ID: 1, X: 100, Y: 200, Width: 800, Height: 600},
		{ID: 2, X: -50, Y: -75, Width: 1024, Height: 768},
	}}

	got, err := EncodeResponse(resp)
	if err != nil {
		t.Fatalf("EncodeResponse: %v", err)
	}
	want := `{"NewWindows":[{"id":1,"x":100,"y":200,"width":800,"height":600},{"id":2,"x":-50,"y":-75,"width":1024,"height":768}]}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestEncodeResponse_UnitVariants(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want string
	}{
		{"CommitComplete", CommitComplete{}, `"CommitComplete"`},
		{"MoveComplete", MoveComplete{}, `"MoveComplete"`},
		{"ResizeComplete", ResizeComplete{}, `"ResizeComplete"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeResponse(tt.resp)
			if err != nil {
				t.Fatalf("EncodeResponse: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEncodeResponse_WindowFocused(t *testing.T) {
	got, err := EncodeResponse(WindowFocused{Focused: true})
	if err != nil {
		t.Fatalf("EncodeResponse: %v", err)
	}
	want := `{"WindowFocused":true}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestEncodeResponse_VisibiltyChangedSpelling(t *testing.T) {
	got, err := EncodeResponse(VisibiltyChanged{IDs: []uint32{1024}})
	if err != nil {
		t.Fatalf("EncodeResponse: %v", err)
	}
	want := `{"VisibiltyChanged":[1024]}`
	if string(got) != want {
		t.Errorf("got %s, want %s (the misspelling is the wire contract)", got, want)
	}
}

func TestDecodeRequest_UnknownVariant(t *testing.T) {
	_, err := DecodeRequest([]byte(`{"DoSomethingUnknown":[]}`))
	if err == nil {
		t.Fatal("expected error for unknown request variant")
	}
}

func TestDecodeRequest_Malformed(t *testing.T) {
	_, err := DecodeRequest([]byte(`not json at all`))
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestEncodeError(t *testing.T) {
	got, err := EncodeError(ErrorEnvelope{InvalidInput: "garbage line"})
	if err != nil {
		t.Fatalf("EncodeError: %v", err)
	}
	want := `{"Error":{"InvalidInput":"garbage line"}}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
