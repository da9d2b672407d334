// Package stdio is a control-plane transport that reads one newline-
// delimited JSON Request per line from stdin and writes its Response
// (or an error envelope) to stdout. It is the Go-native equivalent of
// the line-oriented stdio transport this engine's wire format was
// originally designed around.
package stdio

import (
	"bufio"
	"io"
	"strings"

	"github.com/demellj/wmgrd/internal/logger"
	"github.com/demellj/wmgrd/internal/wire"
)

// Submitter is the engine surface this transport drives: one
// request in, one response out, safe for concurrent callers.
type Submitter interface {
	Submit(req wire.Request) wire.Response
}

// Serve reads newline-delimited Request JSON from r and writes
// Response (or error envelope) JSON, one line per non-blank input line,
// to w; blank lines are skipped. It
// returns when r reaches EOF or a read error occurs; the engine keeps
// running regardless, per the transport/engine lifetime split.
func Serve(r io.Reader, w io.Writer, eng Submitter) error {
	log := logger.WithComponent(logger.ComponentTransportStdio)
	scanner := bufio.NewScanner(r)
	out := bufio.NewWriter(w)
	defer out.Flush()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		req, err := wire.DecodeRequest([]byte(line))
		if err != nil {
			log.Debug().Str("line", line).Err(err).Msg("invalid request")
			writeError(out, wire.ErrorEnvelope{InvalidInput: line})
			continue
		}

		resp := eng.Submit(req)
		encoded, err := wire.EncodeResponse(resp)
		if err != nil {
			writeError(out, wire.ErrorEnvelope{InternalError: err.Error()})
			continue
		}
		out.Write(encoded)
		out.WriteByte('\n')
		out.Flush()
	}
	return scanner.Err()
}

func writeError(out *bufio.Writer, env wire.ErrorEnvelope) {
	encoded, err := wire.EncodeError(env)
	if err != nil {
		return
	}
	out.Write(encoded)
	out.WriteByte('\n')
	out.Flush()
}
