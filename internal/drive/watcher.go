package drive

import (
	"context"
	"sync"
	"time"
)

// Poller re-scans a Drive folder on an interval and ingests files that are
// new or modified since the last successful ingest.
type Poller struct {
	ingest   *IngestService
	folderID string
	interval time.Duration

	mu   sync.Mutex
	seen map[string]string
}

func NewPoller(ingest *IngestService, folderID string, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Poller{
		ingest:   ingest,
		folderID: folderID,
		interval: interval,
		seen:     make(map[string]string),
	}
}

// PollOnce ingests pending files and returns their results.
func (p *Poller) PollOnce(ctx context.Context) ([]Result, error) {
	files, err := p.ingest.source.ListFiles(ctx, p.folderID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	pending := make([]*File, 0, len(files))
	for _, f := range files {
		if modified, ok := p.seen[f.ID]; ok && modified == f.ModifiedTime {
			continue
		}
		pending = append(pending, f)
	}
	p.mu.Unlock()

	if len(pending) == 0 {
		return nil, nil
	}

	results := p.ingest.ingestAll(ctx, pending)

	modified := make(map[string]string, len(pending))
	for _, f := range pending {
		modified[f.ID] = f.ModifiedTime
	}
	p.mu.Lock()
	for _, r := range results {
		if r.Error == "" {
			p.seen[r.FileID] = modified[r.FileID]
		}
	}
	p.mu.Unlock()

	return results, nil
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	log := p.ingest.log
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if results, err := p.PollOnce(ctx); err != nil {
			log.Error().Err(err).Str("folder", p.folderID).Msg("drive poll failed")
		} else if len(results) > 0 {
			log.Info().Int("files", len(results)).Msg("drive poll ingested files")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
