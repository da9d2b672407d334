package wire

import (
	"encoding/json"
	"fmt"
)

// EncodeRequest serializes a Request into the externally-tagged JSON shape:
// unit variants become a bare string, payload variants become a single-key
// object keyed by the variant's name.
func EncodeRequest(r Request) ([]byte, error) {
	switch v := r.(type) {
	case ListNewWindows:
		return json.Marshal("ListNewWindows")
	case ListVisibleWindows:
		return json.Marshal("ListVisibleWindows")
	case ListHiddenWindows:
		return json.Marshal("ListHiddenWindows")
	case Commit:
		return json.Marshal("Commit")
	case FocusWindow:
		return taggedMarshal("FocusWindow", v.ID)
	case ChangeVisibility:
		return taggedMarshal("ChangeVisibility", v.Items)
	case ChangeZIndex:
		return taggedMarshal("ChangeZIndex", v.Items)
	case MoveWindows:
		return taggedMarshal("MoveWindows", v.Items)
	case ResizeWindows:
		return taggedMarshal("ResizeWindows", v.Items)
	default:
		return nil, fmt.Errorf("wire: unknown request type %T", r)
	}
}

// DecodeRequest parses the externally-tagged JSON shape back into a Request.
func DecodeRequest(data []byte) (Request, error) {
	if name, ok := decodeUnitVariant(data); ok {
		switch name {
		case "ListNewWindows":
			return ListNewWindows{}, nil
		case "ListVisibleWindows":
			return ListVisibleWindows{}, nil
		case "ListHiddenWindows":
			return ListHiddenWindows{}, nil
		case "Commit":
			return Commit{}, nil
		default:
			return nil, fmt.Errorf("wire: unknown request variant %q", name)
		}
	}

	name, raw, err := decodeTaggedVariant(data)
	if err != nil {
		return nil, err
	}

	switch name {
	case "FocusWindow":
		var id uint32
		if err := json.Unmarshal(raw, &id); err != nil {
			return nil, fmt.Errorf("wire: decoding FocusWindow: %w", err)
		}
		return FocusWindow{ID: id}, nil
	case "ChangeVisibility":
		var items []VisibilityItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("wire: decoding ChangeVisibility: %w", err)
		}
		return ChangeVisibility{Items: items}, nil
	case "ChangeZIndex":
		var items []ZIndexItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("wire: decoding ChangeZIndex: %w", err)
		}
		return ChangeZIndex{Items: items}, nil
	case "MoveWindows":
		var items []MoveItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("wire: decoding MoveWindows: %w", err)
		}
		return MoveWindows{Items: items}, nil
	case "ResizeWindows":
		var items []ResizeItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("wire: decoding ResizeWindows: %w", err)
		}
		return ResizeWindows{Items: items}, nil
	default:
		return nil, fmt.Errorf("wire: unknown request variant %q", name)
	}
}

// EncodeResponse mirrors EncodeRequest for the Response side.
func EncodeResponse(r Response) ([]byte, error) {
	switch v := r.(type) {
	case CommitComplete:
		return json.Marshal("CommitComplete")
	case MoveComplete:
		return json.Marshal("MoveComplete")
	case ResizeComplete:
		return json.Marshal("ResizeComplete")
	case WindowFocused:
		return taggedMarshal("WindowFocused", v.Focused)
	case NewWindows:
		return taggedMarshal("NewWindows", v.Windows)
	case VisibleWindows:
		return taggedMarshal("VisibleWindows", v.Windows)
	case HiddenWindows:
		return taggedMarshal("HiddenWindows", v.Windows)
	case VisibiltyChanged:
		return taggedMarshal("VisibiltyChanged", v.IDs)
	case ZIndexChanged:
		return taggedMarshal("ZIndexChanged", v.IDs)
	default:
		return nil, fmt.Errorf("wire: unknown response type %T", r)
	}
}

// DecodeResponse mirrors DecodeRequest for the Response side.
func DecodeResponse(data []byte) (Response, error) {
	if name, ok := decodeUnitVariant(data); ok {
		switch name {
		case "CommitComplete":
			return CommitComplete{}, nil
		case "MoveComplete":
			return MoveComplete{}, nil
		case "ResizeComplete":
			return ResizeComplete{}, nil
		default:
			return nil, fmt.Errorf("wire: unknown response variant %q", name)
		}
	}

	name, raw, err := decodeTaggedVariant(data)
	if err != nil {
		return nil, err
	}

	switch name {
	case "WindowFocused":
		var focused bool
		if err := json.Unmarshal(raw, &focused); err != nil {
			return nil, fmt.Errorf("wire: decoding WindowFocused: %w", err)
		}
		return WindowFocused{Focused: focused}, nil
	case "NewWindows":
		var windows []WindowInfo
		if err := json.Unmarshal(raw, &windows); err != nil {
			return nil, fmt.Errorf("wire: decoding NewWindows: %w", err)
		}
		return NewWindows{Windows: windows}, nil
	case "VisibleWindows":
		var windows []WindowInfo
		if err := json.Unmarshal(raw, &windows); err != nil {
			return nil, fmt.Errorf("wire: decoding VisibleWindows: %w", err)
		}
		return VisibleWindows{Windows: windows}, nil
	case "HiddenWindows":
		var windows []WindowInfo
		if err := json.Unmarshal(raw, &windows); err != nil {
			return nil, fmt.Errorf("wire: decoding HiddenWindows: %w", err)
		}
		return HiddenWindows{Windows: windows}, nil
	case "VisibiltyChanged":
		var ids []uint32
		if err := json.Unmarshal(raw, &ids); err != nil {
			return nil, fmt.Errorf("wire: decoding VisibiltyChanged: %w", err)
		}
		return VisibiltyChanged{IDs: ids}, nil
	case "ZIndexChanged":
		var ids []uint32
		if err := json.Unmarshal(raw, &ids); err != nil {
			return nil, fmt.Errorf("wire: decoding ZIndexChanged: %w", err)
		}
		return ZIndexChanged{IDs: ids}, nil
	default:
		return nil, fmt.Errorf("wire: unknown response variant %q", name)
	}
}

// ErrorEnvelope is the out-of-band shape used to report a control-plane
// error instead of a Response: {"Error": {"InvalidInput": "..."}} or
// {"Error": {"InternalError": "..."}}.
type ErrorEnvelope struct {
	InvalidInput  string `json:"InvalidInput,omitempty"`
	InternalError string `json:"InternalError,omitempty"`
}

// EncodeError wraps an ErrorEnvelope in its "Error" tag.
func EncodeError(e ErrorEnvelope) ([]byte, error) {
	return taggedMarshal("Error", e)
}

func taggedMarshal(name string, payload interface{}) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(name)+len(buf)+5)
	out = append(out, '{', '"')
	out = append(out, name...)
	out = append(out, '"', ':')
	out = append(out, buf...)
	out = append(out, '}')
	return out, nil
}

func decodeUnitVariant(data []byte) (string, bool) {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return "", false
	}
	return name, true
}

func decodeTaggedVariant(data []byte) (string, json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", nil, fmt.Errorf("wire: malformed message: %w", err)
	}
	if len(obj) != 1 {
		return "", nil, fmt.Errorf("wire: tagged message must have exactly one key, got %d", len(obj))
	}
	for k, v := range obj {
		return k, v, nil
	}
	panic("unreachable")
}
