package common

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ParseJSON cleans and unmarshals an LLM reply into a type T. It strips
// markdown code fences, cuts the reply down to the outermost object and, as
// a last resort, repairs malformed JSON before decoding.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	jsonStr := stripFences(strings.TrimSpace(response))
	start := strings.IndexByte(jsonStr, '{')
	end := strings.LastIndexByte(jsonStr, '}')
	if start == -1 {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}
	if end > start {
		jsonStr = jsonStr[start : end+1]
	} else {
		jsonStr = jsonStr[start:]
	}

	var result T
	err := json.Unmarshal([]byte(jsonStr), &result)
	if err == nil {
		return result, nil
	}

	repaired, rerr := jsonrepair.JSONRepair(jsonStr)
	if rerr != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}
	if err := json.Unmarshal([]byte(repaired), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal repaired JSON: %w\nData: %s", err, repaired)
	}
	return result, nil
}

func stripFences(s string) string {
	if i := strings.Index(s, "```json"); i != -1 {
		s = s[i+len("```json"):]
	} else if i := strings.Index(s, "```"); i != -1 {
		s = s[i+len("```"):]
	} else {
		return s
	}
	if j := strings.Index(s, "```"); j != -1 {
		s = s[:j]
	}
	return strings.TrimSpace(s)
}
