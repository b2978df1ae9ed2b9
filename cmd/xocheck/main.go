// Command xocheck probes a running xo-arena server: it hits the health
// endpoint and the public top scores and prints what it finds.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/park285/xo-arena/pkg/xodto"
)

const requestTimeout = 5 * time.Second

func main() {
	baseURL := strings.TrimRight(os.Getenv("XO_BASE_URL"), "/")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	client := &fasthttp.Client{
		MaxConnsPerHost: 4,
		ReadTimeout:     requestTimeout,
		WriteTimeout:    requestTimeout,
	}

	body, err := get(client, baseURL+"/healthz")
	if err != nil {
		log.Fatalf("/healthz error: %v", err)
	}
	log.Printf("/healthz ok: %s", strings.TrimSpace(string(body)))

	body, err = get(client, baseURL+"/api/scores/top?limit=5")
	if err != nil {
		log.Fatalf("/api/scores/top error: %v", err)
	}
	var entries []xodto.ScoreEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		log.Fatalf("/api/scores/top decode error: %v", err)
	}
	log.Printf("/api/scores/top ok: %d entries", len(entries))
	for _, e := range entries {
		fmt.Printf("#%d %-24s score=%d wins=%d rank=%s\n", e.Position, e.Nickname, e.Score, e.Wins, e.Rank)
	}
}

func get(client *fasthttp.Client, uri string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := client.DoDeadline(req, resp, time.Now().Add(requestTimeout)); err != nil {
		return nil, err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())
	return out, nil
}
