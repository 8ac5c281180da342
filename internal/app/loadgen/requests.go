package loadgen

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/ilya-burinskiy/clipgate/internal/app/models"
)

const (
	maxStart    = 30
	clipSeconds = 5
)

// ReadSources reads one source per line, skipping blank lines
func ReadSources(r io.Reader) ([]string, error) {
	var sources []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			sources = append(sources, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return sources, nil
}

// RequestGenerator builds random processing requests over a list of sources
type RequestGenerator struct {
	mu      sync.Mutex
	rnd     *rand.Rand
	sources []string
}

func NewRequestGenerator(sources []string, seed int64) *RequestGenerator {
	return &RequestGenerator{
		rnd:     rand.New(rand.NewSource(seed)),
		sources: sources,
	}
}

// Next request: start in [0, 30), a five second clip, a random source and user
func (g *RequestGenerator) Next() models.ProcessingRequest {
	g.mu.Lock()
	start := g.rnd.Intn(maxStart)
	src := g.sources[g.rnd.Intn(len(g.sources))]
	g.mu.Unlock()

	return models.ProcessingRequest{
		UserID: uuid.NewString(),
		Src:    src,
		Start:  float64(start),
		End:    float64(start + clipSeconds),
	}
}

// Requester posts generated requests to the requesting service
type Requester struct {
	Client    *http.Client
	PostURL   string
	Generator *RequestGenerator
	Procs     int64
	Bar       *progressbar.ProgressBar
}

// Run posts n requests
func (r Requester) Run(ctx context.Context, n int) (Stats, error) {
	return runBounded(ctx, n, r.Procs, r.Bar, func(ctx context.Context, _ int) error {
		return r.post(ctx, r.Generator.Next())
	})
}

func (r Requester) post(ctx context.Context, req models.ProcessingRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, r.PostURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := r.Client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if _, err := io.Copy(io.Discard, response.Body); err != nil {
		return err
	}
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", response.StatusCode)
	}

	return nil
}
