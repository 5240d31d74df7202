package smoke

import (
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"

	simdomain "github.com/okian/geosim/internal/domain/simulation"
)

// Case is one request and its expected outcome.
type Case struct {
	Name       string
	Path       string
	WantStatus int
	// WantBody is compared exactly when non-empty.
	WantBody string
}

var sampleClients = []string{"dot", "DOT", "Dot", "acme", "dots", "tenant-7"} //nolint:gochecknoglobals // fixed sample

// generateCalculateCases builds n randomized valid cases plus the fixed invalid ones.
func generateCalculateCases(n int, seed int64) []Case {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic test data
	cases := make([]Case, 0, n+4)

	for i := 0; i < n; i++ {
		weight := math.Round((rng.Float64()*2000-1000)*100) / 100
		client := sampleClients[rng.Intn(len(sampleClients))]
		raw := strconv.FormatFloat(weight, 'f', -1, 64)
		cases = append(cases, Case{
			Name:       "calculate " + raw + " for " + client,
			Path:       calculatePath(raw, client, true),
			WantStatus: http.StatusOK,
			WantBody:   simdomain.FormatResult(simdomain.Calculate(simdomain.Request{Weight: weight, Client: client})),
		})
	}

	return append(cases,
		Case{Name: "non-numeric weight", Path: calculatePath("heavy", "dot", true), WantStatus: http.StatusBadRequest},
		Case{Name: "missing weight", Path: "/calculate?client=dot", WantStatus: http.StatusBadRequest},
		Case{Name: "missing client", Path: calculatePath("5", "", false), WantStatus: http.StatusBadRequest},
		Case{Name: "dot weight 5", Path: calculatePath("5", "DOT", true), WantStatus: http.StatusOK, WantBody: "50"},
	)
}

func calculatePath(weight, client string, withClient bool) string {
	q := url.Values{}
	q.Set("weight", weight)
	if withClient {
		q.Set("client", client)
	}
	return "/calculate?" + q.Encode()
}
