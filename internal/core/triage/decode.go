// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-19

package triage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Decoded is the typed outcome of decoding one classifier reply.
// Exactly one of Results or Err is meaningful: when Err is non-nil the batch
// must be treated as failed and Results is nil.
type Decoded struct {
	Results  []ClassificationResult
	Dropped  []int
	Warnings []UnrecognizedLabelWarning
	Err      *MalformedResponseError
}

// OK reports whether the reply decoded successfully.
func (d Decoded) OK() bool {
	return d.Err == nil
}

// rawRecord keeps fields as raw JSON so that missing fields can be told apart
// from zero values.
type rawRecord struct {
	Number   json.RawMessage `json:"number"`
	Priority json.RawMessage `json:"priority"`
}

// DecodeResponse strictly decodes a classifier reply for batch.
// The reply must be a JSON array of objects carrying an integer "number" and
// a string "priority", optionally wrapped in a markdown code fence. Records
// for numbers that were not sent in the batch are dropped.
func DecodeResponse(batch Batch, text string) Decoded {
	malformed := func(reason string, err error) Decoded {
		return Decoded{Err: &MalformedResponseError{Batch: batch.Index, Reason: reason, Err: err}}
	}

	payload := stripCodeFence(text)
	if payload == "" {
		return malformed("empty response", nil)
	}

	dec := json.NewDecoder(strings.NewReader(payload))
	var records []rawRecord
	if err := dec.Decode(&records); err != nil {
		return malformed("not a JSON array of records", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return malformed("trailing data after JSON array", err)
	}
	if records == nil {
		return malformed("null response", nil)
	}

	out := Decoded{Results: make([]ClassificationResult, 0, len(records))}
	for i, rec := range records {
		number, err := decodeNumber(rec.Number)
		if err != nil {
			return malformed(fmt.Sprintf("record %d: %v", i, err), nil)
		}
		label, err := decodePriority(rec.Priority)
		if err != nil {
			return malformed(fmt.Sprintf("record %d: %v", i, err), nil)
		}

		if !batch.contains(number) {
			out.Dropped = append(out.Dropped, number)
			continue
		}
		if !label.Known() {
			out.Warnings = append(out.Warnings, UnrecognizedLabelWarning{Number: number, Label: label})
		}
		out.Results = append(out.Results, ClassificationResult{Number: number, Priority: label})
	}
	return out
}

func decodeNumber(raw json.RawMessage) (int, error) {
	if isMissing(raw) {
		return 0, fmt.Errorf("missing number")
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return 0, fmt.Errorf("number is not numeric: %s", string(raw))
	}
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("number is not an integer: %s", n.String())
	}
	return int(v), nil
}

func decodePriority(raw json.RawMessage) (PriorityLabel, error) {
	if isMissing(raw) {
		return "", fmt.Errorf("missing priority")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("priority is not a string: %s", string(raw))
	}
	return PriorityLabel(s), nil
}

func isMissing(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// stripCodeFence removes surrounding whitespace and one ``` fence, which some
// models add even when asked for bare JSON.
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
