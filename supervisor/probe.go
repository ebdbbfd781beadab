package supervisor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// WaitForBackend polls the backend's HTTP address until it answers or the
// context is done. Launch itself never waits on the child, so a host that
// needs the backend reachable before rendering its first view opts in by
// calling this after Launch.
//
// Any HTTP response counts as ready; the backend serving a 404 on "/" is
// still a listening backend.
func (s *Supervisor) WaitForBackend(ctx context.Context) error {
	client := s.probeClient()
	url := fmt.Sprintf("http://%s/", s.cfg.Addr())

	ticker := time.NewTicker(s.waitInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := s.probe(ctx, client, url)
			if err == nil {
				s.log.Debug("backend answered, done waiting")
				return nil
			}
			s.log.Debugf("backend probe error: %s", err)
		}
	}
}

func (s *Supervisor) probe(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building probe request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (s *Supervisor) probeClient() *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Backoff = func(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
		return 10 * time.Millisecond
	}
	retryClient.RetryMax = 3
	retryClient.Logger = &logAdapter{SugaredLogger: s.log.Named("probe")}
	return retryClient.StandardClient()
}

// logAdapter adapts a zap sugared logger to retryablehttp's leveled logger.
type logAdapter struct {
	*zap.SugaredLogger
}

func (l *logAdapter) Printf(format string, args ...interface{}) {
	l.Debugf(format, args...)
}
