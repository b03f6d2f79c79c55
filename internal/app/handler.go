package app

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"vinted-listing/internal/logging"
	"vinted-listing/internal/output"
	"vinted-listing/internal/row"
	"vinted-listing/internal/storage"
	"vinted-listing/internal/tenant"
)

// Handler reacts to an uploaded table: it reads the object, renders the
// listings and stores the document under output/.
type Handler struct {
	Source   storage.Source
	Sink     storage.Sink
	Tenants  tenant.Provider
	Tenant   tenant.Key
	Pipeline Pipeline
	Logger   *logging.Logger
}

// HandleS3Event renders every record of the event before storing anything:
// if one record fails, no document of the event is written.
func (h *Handler) HandleS3Event(ctx context.Context, ev events.S3Event) (Response, error) {
	if len(ev.Records) == 0 {
		err := fmt.Errorf("événement sans objet : %w", row.ErrInputFormat)
		return failure(err), err
	}
	log := h.Logger.WithRun(uuid.NewString())
	cfg, err := h.fetchTenant(ctx, log)
	if err != nil {
		return failure(err), err
	}
	docs := make([]rendered, 0, len(ev.Records))
	for _, rec := range ev.Records {
		doc, err := h.render(ctx, log, cfg, rec.S3.Bucket.Name, rec.S3.Object.Key)
		if err != nil {
			return failure(err), err
		}
		docs = append(docs, doc)
	}
	for _, doc := range docs {
		if err := h.write(ctx, log, doc); err != nil {
			return failure(err), err
		}
	}
	return Response{StatusCode: 200, Body: successBody}, nil
}

type rendered struct {
	src   storage.Ref
	dst   storage.Ref
	body  string
	start time.Time
}

// HandleObject processes a single bucket/key pair; rawKey is decoded the same
// way as an event key.
func (h *Handler) HandleObject(ctx context.Context, bucket, rawKey string) (Response, error) {
	return h.HandleS3Event(ctx, events.S3Event{Records: []events.S3EventRecord{{
		S3: events.S3Entity{
			Bucket: events.S3Bucket{Name: bucket},
			Object: events.S3Object{Key: rawKey},
		},
	}}})
}

func (h *Handler) fetchTenant(ctx context.Context, log *logging.Logger) (tenant.Config, error) {
	cfg, err := h.Tenants.Fetch(ctx, h.Tenant)
	if err != nil {
		log.Emit(logging.Event{Level: "error", Event: "tenant_failed", Tenant: h.Tenant.String(), Error: err.Error()})
		return tenant.Config{}, err
	}
	log.Emit(logging.Event{Event: "tenant_loaded", Tenant: h.Tenant.String()})
	return cfg, nil
}

func (h *Handler) render(ctx context.Context, log *logging.Logger, cfg tenant.Config, bucket, rawKey string) (rendered, error) {
	start := time.Now()
	key, err := output.DecodeEventKey(rawKey)
	if err != nil {
		return rendered{}, fmt.Errorf("clé d'objet illisible %q : %v : %w", rawKey, err, row.ErrInputFormat)
	}
	outKey, err := output.Key(key)
	if err != nil {
		return rendered{}, fmt.Errorf("objet sans nom : %w: %w", row.ErrInputFormat, err)
	}
	src := storage.Ref{Bucket: bucket, Key: key}
	raw, err := h.Source.Read(ctx, src)
	if err != nil {
		log.Emit(logging.Event{Level: "error", Event: "read_failed", Bucket: bucket, Key: key, Input: src.String(), Error: err.Error()})
		return rendered{}, fmt.Errorf("%w: %w", row.ErrInputFormat, err)
	}

	p := h.Pipeline
	p.Logger = log
	p.Input = src.String()
	doc, err := p.Run(ctx, raw, cfg)
	if err != nil {
		log.Emit(logging.Event{Level: "error", Event: "failed", Bucket: bucket, Key: key, Error: err.Error()})
		return rendered{}, err
	}
	return rendered{src: src, dst: storage.Ref{Bucket: bucket, Key: outKey}, body: doc, start: start}, nil
}

func (h *Handler) write(ctx context.Context, log *logging.Logger, doc rendered) error {
	if err := h.Sink.Write(ctx, doc.dst, []byte(doc.body), output.ContentType); err != nil {
		log.Emit(logging.Event{Level: "error", Event: "write_failed", Bucket: doc.dst.Bucket, OutputFile: doc.dst.String(), Error: err.Error()})
		return err
	}
	log.Emit(logging.Event{Event: "write_ok", Bucket: doc.src.Bucket, Key: doc.src.Key, OutputFile: doc.dst.String()})
	log.Emit(logging.Event{Event: "finished", Bucket: doc.src.Bucket, Key: doc.src.Key, LatencyMS: time.Since(doc.start).Milliseconds()})
	return nil
}
