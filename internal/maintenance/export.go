package maintenance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"google.golang.org/api/iterator"

	"github.com/kazoku-nikki/family-diary-backend/config"
)

// Exporter writes a nightly JSON snapshot of the diaries collection to an
// S3-compatible bucket. Firestore stays the source of truth; the export is
// the off-site copy families can restore from.
type Exporter struct {
	client *firestore.Client
	cfg    config.BackupConfig
}

func NewExporter(client *firestore.Client, cfg config.BackupConfig) *Exporter {
	return &Exporter{client: client, cfg: cfg}
}

func (e *Exporter) s3Client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(e.cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			e.cfg.AccessKey,
			e.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if e.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(e.cfg.Endpoint)
		}
	}), nil
}

type exportedEntry struct {
	ID       string                   `json:"id"`
	Data     map[string]interface{}   `json:"data"`
	Comments []map[string]interface{} `json:"comments,omitempty"`
}

func (e *Exporter) Run(ctx context.Context) error {
	entries, err := e.collect(ctx)
	if err != nil {
		return fmt.Errorf("collect entries: %w", err)
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}

	client, err := e.s3Client(ctx)
	if err != nil {
		return fmt.Errorf("init s3 client: %w", err)
	}

	key := fmt.Sprintf("backups/diaries-%s.json", time.Now().UTC().Format("20060102"))
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put backup object: %w", err)
	}

	log.Printf("[info] operation=export entries=%d key=%s bytes=%d", len(entries), key, len(payload))
	return nil
}

func (e *Exporter) collect(ctx context.Context) ([]exportedEntry, error) {
	it := e.client.Collection("diaries").Documents(ctx)
	defer it.Stop()

	var out []exportedEntry
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, err
		}

		entry := exportedEntry{ID: doc.Ref.ID, Data: doc.Data()}

		cit := doc.Ref.Collection("comments").Documents(ctx)
		for {
			cdoc, err := cit.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				cit.Stop()
				return nil, err
			}
			entry.Comments = append(entry.Comments, cdoc.Data())
		}
		cit.Stop()

		out = append(out, entry)
	}
}
