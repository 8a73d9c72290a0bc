package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// make_frame_msg.go - Utility to build a frame message for the recognition websocket
//
// Usage:
//   go run scripts/make_frame_msg.go <image.jpg> [frame_id]
//
// Example:
//   go run scripts/make_frame_msg.go testdata/office.jpg frame-1 | websocat ws://localhost:8000/ws/recognize

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run make_frame_msg.go <image.jpg> [frame_id]")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "read image: %v\n", err)
		os.Exit(1)
	}

	frameID := "frame-1"
	if len(os.Args) > 2 {
		frameID = os.Args[2]
	}

	msg := map[string]interface{}{
		"type":      "frame",
		"frame_id":  frameID,
		"timestamp": float64(time.Now().UnixMilli()) / 1000.0,
		"data":      base64.StdEncoding.EncodeToString(data),
	}

	out, err := json.Marshal(msg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(out))
}
