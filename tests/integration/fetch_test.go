package integration

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sequencetools/uniprot-client/internal/testutil"
	"github.com/sequencetools/uniprot-client/pkg/client"
	"github.com/sequencetools/uniprot-client/pkg/fetch"
	"github.com/sequencetools/uniprot-client/pkg/search"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

func newTestClient(t *testing.T, mock *testutil.MockUniProt, redisClient *redis.Client) *client.Client {
	t.Helper()

	cfg := client.DefaultConfig("integration-test@example.com")
	cfg.ListURL = mock.ListURL()
	cfg.BatchURL = mock.BatchURL()
	cfg.Redis = redisClient
	cfg.CacheTTL = time.Minute
	cfg.MinRequestInterval = 20 * time.Millisecond

	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return c
}

// TestFullRetrievalFlow exercises the complete pipeline against the mock
// service: paginated search, batch submission, redirect, one polling cycle,
// and streaming decode of the export document.
func TestFullRetrievalFlow(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockUniProt()
	defer mock.Close()

	ids := []string{"P00001", "P00002", "P00003", "P00004", "P00005"}
	mock.SetListResults(ids)
	mock.SetBatchJob(1, "application/xml", testutil.DocumentXML(ids...))

	c := newTestClient(t, mock, redisClient)

	cfg := fetch.DefaultConfig()
	cfg.Search.PageSize = 2
	cfg.Batch.PollInterval = 10 * time.Millisecond

	fetcher := fetch.New(c, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := fetcher.Fetch(ctx, "organism:human")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	defer result.Close()

	var got []string
	for {
		e, err := result.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Failed to decode entry: %v", err)
		}
		got = append(got, e.Accession())
	}

	if len(got) != len(ids) {
		t.Fatalf("Expected %d entries, got %d", len(ids), len(got))
	}
	for i, id := range ids {
		if got[i] != id {
			t.Errorf("Entry %d: expected accession %s, got %s", i, id, got[i])
		}
	}
}

// TestSearchPageCache verifies that a repeated search is served from the
// Redis page cache without touching the list endpoint again.
func TestSearchPageCache(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockUniProt()
	defer mock.Close()

	ids := []string{"Q11111", "Q22222", "Q33333"}
	mock.SetListResults(ids)

	c := newTestClient(t, mock, redisClient)

	cfg := search.DefaultConfig()
	paginator := search.NewPaginator(c, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	first, err := paginator.Search(ctx, "gene:CDC7")
	if err != nil {
		t.Fatalf("First search failed: %v", err)
	}
	requestsAfterFirst := mock.GetRequestCount()

	second, err := paginator.Search(ctx, "gene:CDC7")
	if err != nil {
		t.Fatalf("Second search failed: %v", err)
	}

	if mock.GetRequestCount() != requestsAfterFirst {
		t.Errorf("Expected cached second search, got %d extra requests",
			mock.GetRequestCount()-requestsAfterFirst)
	}

	if len(first) != len(ids) || len(second) != len(ids) {
		t.Fatalf("Expected %d results on both searches, got %d and %d",
			len(ids), len(first), len(second))
	}
	for i := range ids {
		if second[i] != ids[i] {
			t.Errorf("Result %d: expected %s, got %s", i, ids[i], second[i])
		}
	}
}

// TestPolitenessGateSpacing verifies that consecutive requests through one
// client are spaced by at least the configured minimum interval.
func TestPolitenessGateSpacing(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockUniProt()
	defer mock.Close()

	mock.SetListResults([]string{"P12345"})

	cfg := client.DefaultConfig("integration-test@example.com")
	cfg.ListURL = mock.ListURL()
	cfg.Redis = redisClient
	cfg.MinRequestInterval = 100 * time.Millisecond

	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	for i := 0; i < 3; i++ {
		resp, err := c.Get(ctx, mock.ListURL()+"?query=test&format=list")
		if err != nil {
			t.Fatalf("Request %d failed: %v", i, err)
		}
		resp.Body.Close()
	}
	elapsed := time.Since(start)

	// Three requests through a 100ms gate need at least two full waits.
	if elapsed < 200*time.Millisecond {
		t.Errorf("Expected at least 200ms for 3 gated requests, took %v", elapsed)
	}
}
