package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/moneytracker/internal/dbx"
	"github.com/dmitrijs2005/moneytracker/internal/logging"
	"github.com/dmitrijs2005/moneytracker/internal/netx"
	sc "github.com/dmitrijs2005/moneytracker/internal/server/config"
	"github.com/dmitrijs2005/moneytracker/internal/server/models"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// StatementLinkValidity is how long the download link of an export works.
const StatementLinkValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	uploadToPresignedURL = netx.UploadToPresignedURL
)

var statementHeader = []string{"id", "date", "type", "person", "amount", "description"}

// ExportService writes a user's ledger as CSV to S3-compatible storage and
// hands back a short-lived download link.
type ExportService struct {
	tr          dbx.Transactor
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
}

func NewExportService(tr dbx.Transactor, m repomanager.RepositoryManager, config *sc.Config, logger logging.Logger) *ExportService {
	return &ExportService{
		tr:          tr,
		repomanager: m,
		config:      config,
		logger:      logger.With("service", "export"),
	}
}

// StatementKey returns a fresh object key for userID's statement.
func StatementKey(userID string, d time.Time) string {
	return fmt.Sprintf("statements/%s/%04d/%02d/%02d/%v.csv", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

// Export uploads every transaction of owner, newest first, and returns the
// stored statement with a presigned GET URL.
func (s *ExportService) Export(ctx context.Context, owner *models.User) (*models.Statement, error) {
	list, err := s.repomanager.Transactions(s.tr.Conn()).ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, classify(ctx, s.logger, "export", err)
	}

	body, err := RenderStatement(list)
	if err != nil {
		return nil, classify(ctx, s.logger, "render statement", err)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, classify(ctx, s.logger, "s3 config", err)
	}

	key := StatementKey(owner.ID, timeNow().UTC())

	putURL, err := s.presignedPutURL(ctx, presignClient, key)
	if err != nil {
		return nil, classify(ctx, s.logger, "presign put", err)
	}
	if err := uploadToPresignedURL(ctx, putURL, "text/csv", body); err != nil {
		return nil, classify(ctx, s.logger, "upload statement", err)
	}

	getURL, err := s.presignedGetURL(ctx, presignClient, key)
	if err != nil {
		return nil, classify(ctx, s.logger, "presign get", err)
	}

	statementsExported.Inc()
	s.logger.Info(ctx, "statement exported", "user", owner.UserName, "key", key, "rows", len(list))

	return &models.Statement{
		Key:     key,
		URL:     getURL,
		Expires: timeNow().Add(StatementLinkValidity),
		Rows:    len(list),
	}, nil
}

// RenderStatement encodes transactions as CSV with a header row.
func RenderStatement(list []models.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(statementHeader); err != nil {
		return nil, err
	}
	for _, t := range list {
		person := ""
		if t.Person != nil {
			person = t.Person.Name
		}
		description := ""
		if t.Description != nil {
			description = *t.Description
		}
		row := []string{
			t.ID,
			t.Date.UTC().Format(time.RFC3339),
			string(t.Type),
			person,
			t.Amount.StringFixed(models.AmountScale),
			description,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ExportService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

func (s *ExportService) presignedPutURL(ctx context.Context, pc *s3.PresignClient, key string) (string, error) {
	bucket := s.config.S3Bucket
	contentType := "text/csv"

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(StatementLinkValidity))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *ExportService) presignedGetURL(ctx context.Context, pc *s3.PresignClient, key string) (string, error) {
	bucket := s.config.S3Bucket

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(StatementLinkValidity))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
