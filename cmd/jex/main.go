// Command jex is a small stdin/stdout driver for the JEX engine.
//
// Protocol: single JSON object on stdin → single JSON object on stdout.
//
//	stdin:  { "script": "<jex source>", "input": <any JSON value>, "meta": <any JSON value> }
//	stdout: { "output": <any JSON value> }    on success
//	        { "error":  "<message>"       }    on failure (exit code 1)
//
// Usage:
//
//	echo '{"script":"%set $.greeting = concat(\"hello \", &name);","input":{},"meta":null}' \
//	    | jex
package main

import (
	"encoding/json"
	"os"

	"github.com/sandrolain/jex"
	"github.com/sandrolain/jex/pkg/value"
)

type request struct {
	Script string      `json:"script"`
	Input  interface{} `json:"input"`
	Meta   interface{} `json:"meta"`
}

type response struct {
	Output interface{} `json:"output,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func writeResponse(r response, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(response{Error: "invalid request JSON: " + err.Error()}, 1)
	}

	inputNode := value.FromGo(req.Input)
	metaNode := value.FromGo(req.Meta)

	prog, err := jex.Compile(req.Script, jex.CompileOptions{Strict: false, AllowUserFunctions: true})
	if err != nil {
		writeResponse(response{Error: err.Error()}, 1)
	}

	out, err := prog.Execute(inputNode, metaNode)
	if err != nil {
		writeResponse(response{Error: err.Error()}, 1)
	}

	text, err := value.MarshalNode(out)
	if err != nil {
		writeResponse(response{Error: err.Error()}, 1)
	}
	var decoded interface{}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		writeResponse(response{Error: err.Error()}, 1)
	}

	writeResponse(response{Output: decoded}, 0)
}
