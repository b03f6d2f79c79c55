package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunWritesOneDocumentPerFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	writeInput(t, work, "stock.csv", sampleCSV)
	writeInput(t, work, "broken.csv", "   \n")

	var out bytes.Buffer
	res, err := Run(context.Background(), Options{
		Inputs:       []string{"stock.csv", "broken.csv"},
		CWD:          work,
		OutputDir:    "out",
		TenantSource: "defaults",
		Stdout:       &out,
		Generator:    echoGenerator(),
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Succeeded != 1 || res.Failed != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	raw, err := os.ReadFile(filepath.Join(work, "out", "output", "stock.txt"))
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	doc := string(raw)
	if len(listingsOf(doc)) != 2 || !strings.Contains(doc, "Sunset Rider propose des équipements moto reconditionnés") {
		t.Fatalf("unexpected document:\n%s", doc)
	}
	if _, err := os.Stat(filepath.Join(work, "out", "output", "broken.txt")); !os.IsNotExist(err) {
		t.Fatalf("failed file must not produce output, stat err=%v", err)
	}
	if !strings.Contains(out.String(), "Fichier écrit") || !strings.Contains(out.String(), "Tableau illisible") {
		t.Fatalf("unexpected log output:\n%s", out.String())
	}
}

func TestRunRequiresAPIKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	work := t.TempDir()
	writeInput(t, work, "stock.csv", sampleCSV)
	_, err := Run(context.Background(), Options{Inputs: []string{"stock.csv"}, CWD: work, Stdout: &bytes.Buffer{}})
	if err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY est vide") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestRunUnknownTenant(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	writeInput(t, work, "stock.csv", sampleCSV)
	_, err := Run(context.Background(), Options{
		Inputs:    []string{"stock.csv"},
		CWD:       work,
		ClientID:  "inconnu",
		Stdout:    &bytes.Buffer{},
		Generator: echoGenerator(),
	})
	if err == nil || !strings.Contains(err.Error(), "configuration introuvable") {
		t.Fatalf("expected tenant error, got %v", err)
	}
}

func TestRunAgainstOpenAIServer(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	var prompts []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" || r.Header.Get("Authorization") != "Bearer sk-test" {
			http.Error(w, "unexpected request", http.StatusBadRequest)
			return
		}
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Messages) != 2 {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		prompts = append(prompts, body.Messages[1].Content)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"gpt-4o","choices":[{"index":0,"message":{"role":"assistant","content":"  Belle pièce.  "},"finish_reason":"stop"}]}`))
	}))
	defer ts.Close()

	cfgPath := filepath.Join(home, "config.yaml")
	cfgYAML := "base_url: " + ts.URL + "/v1\nmax_retries: 0\ntenant:\n  source: defaults\n"
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	work := t.TempDir()
	writeInput(t, work, "stock.csv", sampleCSV)

	res, err := Run(context.Background(), Options{
		Inputs:     []string{work},
		ConfigPath: cfgPath,
		CWD:        work,
		JSONLog:    true,
		Stdout:     &bytes.Buffer{},
	})
	if err != nil || res.Succeeded != 1 {
		t.Fatalf("unexpected run: %+v err=%v", res, err)
	}
	if len(prompts) != 2 || !strings.Contains(prompts[0], "Alpinestars GP") {
		t.Fatalf("unexpected prompts: %v", prompts)
	}
	raw, err := os.ReadFile(filepath.Join(work, "output", "stock.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "🧥 Alpinestars GP\nBelle pièce.\n\n") {
		t.Fatalf("unexpected document:\n%s", raw)
	}
}

func TestRunS3RequiresAPIKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	resp, err := RunS3(context.Background(), Options{CWD: t.TempDir(), Stdout: &bytes.Buffer{}}, "bucket", "input/stock.csv")
	if err == nil || resp.StatusCode != http.StatusInternalServerError || !strings.Contains(resp.Body, "OPENAI_API_KEY") {
		t.Fatalf("expected missing key failure, got %+v %v", resp, err)
	}
}
