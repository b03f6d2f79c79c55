package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"vinted-listing/internal/llm"
	"vinted-listing/internal/storage"
	"vinted-listing/internal/tenant"
)

const sampleCSV = "Taille,Famille,Matière,État,Protections,Doublure,Designation,Indications pour description,Code article\n" +
	"M,Blouson et veste Homme,Cuir,Très bon état,Coudes,Polaire,Alpinestars GP,Coutures renforcées,SKU1\n" +
	"40,Chaussures Femme,Textile,Bon état,Chevilles,,TCX Street,Imperméables,SKU2\n"

func sampleTenant() tenant.Config {
	return tenant.Config{
		QuiSommesNous:  "⚡ Qui sommes-nous ?\nSunset Rider",
		InfosSupp:      "📦 Envoi rapide",
		Hashtags:       "#moto #sunsetrider",
		PromptTemplate: "Décris : {PRODUCT_DATA} atouts {SPECIFIC_ASSETS}",
		UGSTemplate:    "🔗 UGS : {UGS}",
	}
}

type stubGenerator struct {
	mu      sync.Mutex
	calls   []llm.Request
	respond func(n int, req llm.Request) (string, error)
}

func (s *stubGenerator) Generate(_ context.Context, req llm.Request) (llm.Response, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	n := len(s.calls)
	s.mu.Unlock()
	text, err := s.respond(n, req)
	if err != nil {
		return llm.Response{}, err
	}
	return llm.Response{Text: text, LatencyMS: 5}, nil
}

func (s *stubGenerator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// echoGenerator answers DESC1, DESC2... in call order.
func echoGenerator() *stubGenerator {
	return &stubGenerator{respond: func(n int, _ llm.Request) (string, error) {
		return fmt.Sprintf("DESC%d", n), nil
	}}
}

func failingGenerator(failOn int) *stubGenerator {
	return &stubGenerator{respond: func(n int, _ llm.Request) (string, error) {
		if n == failOn {
			return "", errors.New("quota dépassé")
		}
		return fmt.Sprintf("DESC%d", n), nil
	}}
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	writes  []storage.Ref
	types   []string
	readErr error
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Read(_ context.Context, ref storage.Ref) ([]byte, error) {
	if m.readErr != nil {
		return nil, fmt.Errorf("%v : %w", m.readErr, storage.ErrRead)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.objects[ref.String()]
	if !ok {
		return nil, fmt.Errorf("%s absent : %w", ref, storage.ErrRead)
	}
	return raw, nil
}

func (m *memStore) Write(_ context.Context, ref storage.Ref, body []byte, contentType string) error {
	if m.putErr != nil {
		return fmt.Errorf("%v : %w", m.putErr, storage.ErrOutputWrite)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[ref.String()] = append([]byte{}, body...)
	m.writes = append(m.writes, ref)
	m.types = append(m.types, contentType)
	return nil
}

type staticTenants struct {
	cfg   tenant.Config
	err   error
	calls int
}

func (s *staticTenants) Fetch(_ context.Context, _ tenant.Key) (tenant.Config, error) {
	s.calls++
	if s.err != nil {
		return tenant.Config{}, s.err
	}
	return s.cfg.Validate()
}

func listingsOf(doc string) []string {
	return strings.Split(doc, "\n\n───────────────────────────────\n\n")
}
