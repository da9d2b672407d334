package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/demellj/wmgrd/internal/wire"
)

var (
	addr       string
	outFormat  string
	rootCmd = &cobra.Command{
		Use:   "wmgrctl",
		Short: "wmgrctl drives a running wmgrd instance over its HTTP control plane",
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "http://127.0.0.1:7890", "wmgrd HTTP control-plane address")
	rootCmd.PersistentFlags().StringVarP(&outFormat, "format", "f", "table", "output format (table or json)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// send POSTs req to the configured wmgrd HTTP endpoint and decodes the
// Response, or the error envelope if wmgrd rejected the request.
func send(req wire.Request) (wire.Response, error) {
	encoded, err := wire.EncodeRequest(req)
	if err != nil {
		return nil, err
	}

	httpResp, err := http.Post(addr+"/api", "application/json", bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to reach wmgrd at %s: %w", addr, err)
	}
	defer httpResp.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(httpResp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode wmgrd response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var env wire.ErrorEnvelope
		if inner, ok := unwrapError(raw); ok {
			json.Unmarshal(inner, &env)
		}
		if env.InvalidInput != "" {
			return nil, fmt.Errorf("wmgrd rejected the request: %s", env.InvalidInput)
		}
		if env.InternalError != "" {
			return nil, fmt.Errorf("wmgrd internal error: %s", env.InternalError)
		}
		return nil, fmt.Errorf("wmgrd returned status %d", httpResp.StatusCode)
	}

	return wire.DecodeResponse(raw)
}

func unwrapError(raw json.RawMessage) (json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	inner, ok := obj["Error"]
	return inner, ok
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
