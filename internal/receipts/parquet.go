package receipts

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/chrisdamba/kioskorder/internal/cloudwriter"
	"github.com/chrisdamba/kioskorder/internal/models"
	"github.com/lucsky/cuid"
	log "github.com/sirupsen/logrus"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// ReceiptRow is the flat columnar form of a receipt. Line items are kept as
// a JSON string column.
type ReceiptRow struct {
	OrderID        string  `parquet:"name=order_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	TableNumber    string  `parquet:"name=table_number, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	TableID        string  `parquet:"name=table_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	CustomerName   string  `parquet:"name=customer_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	CustomerMobile string  `parquet:"name=customer_mobile, type=BYTE_ARRAY, convertedtype=UTF8"`
	CouponCode     string  `parquet:"name=coupon_code, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ItemCount      int32   `parquet:"name=item_count, type=INT32"`
	Items          string  `parquet:"name=items, type=BYTE_ARRAY, convertedtype=UTF8"`
	Subtotal       float64 `parquet:"name=subtotal, type=DOUBLE"`
	Discount       float64 `parquet:"name=discount, type=DOUBLE"`
	CGST           float64 `parquet:"name=cgst, type=DOUBLE"`
	SGST           float64 `parquet:"name=sgst, type=DOUBLE"`
	Total          float64 `parquet:"name=total, type=DOUBLE"`
	PlacedAt       int64   `parquet:"name=placed_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
}

func NewReceiptRow(receipt *models.Receipt) (*ReceiptRow, error) {
	items, err := json.Marshal(receipt.Items)
	if err != nil {
		return nil, fmt.Errorf("encode receipt items: %w", err)
	}
	count := 0
	for _, item := range receipt.Items {
		count += item.Quantity
	}
	return &ReceiptRow{
		OrderID:        receipt.OrderID,
		TableNumber:    receipt.TableNumber,
		TableID:        receipt.TableID,
		CustomerName:   receipt.CustomerName,
		CustomerMobile: receipt.CustomerMobile,
		CouponCode:     receipt.CouponCode,
		ItemCount:      int32(count),
		Items:          string(items),
		Subtotal:       receipt.Subtotal,
		Discount:       receipt.Discount,
		CGST:           receipt.CGST,
		SGST:           receipt.SGST,
		Total:          receipt.Total,
		PlacedAt:       receipt.PlacedAt.UnixMilli(),
	}, nil
}

// ParquetOutput writes receipts to one parquet file per partition and run.
// Files are only complete after Close, which writes the footers.
type ParquetOutput struct {
	basePath           string
	folder             string
	runID              string
	mu                 sync.Mutex
	writers            map[string]*writer.ParquetWriter
	writerMutexes      map[string]*sync.Mutex
	files              map[string]source.ParquetFile
	paths              map[string]string
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

func NewParquetOutput(cfg models.ReceiptsConfig) (*ParquetOutput, error) {
	p := newParquetOutput(cfg.OutputPath, cfg.OutputFolder)

	if cfg.CloudStorage.Provider != "" {
		factory, err := cloudwriter.NewFactory(cfg.CloudStorage.Provider, cfg.CloudStorage.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		p.cloudWriterFactory = factory
		p.cloudBucketName = cfg.CloudStorage.BucketName
	}
	return p, nil
}

// NewCloudParquetOutput writes to object storage through factory.
func NewCloudParquetOutput(folder, bucket string, factory cloudwriter.CloudWriterFactory) *ParquetOutput {
	p := newParquetOutput("", folder)
	p.cloudWriterFactory = factory
	p.cloudBucketName = bucket
	return p
}

func newParquetOutput(basePath, folder string) *ParquetOutput {
	return &ParquetOutput{
		basePath:      basePath,
		folder:        folder,
		runID:         cuid.New(),
		writers:       make(map[string]*writer.ParquetWriter),
		writerMutexes: make(map[string]*sync.Mutex),
		files:         make(map[string]source.ParquetFile),
		paths:         make(map[string]string),
	}
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	receipt, err := decodeReceipt(msg)
	if err != nil {
		return err
	}
	row, err := NewReceiptRow(receipt)
	if err != nil {
		return err
	}

	partition := partitionPath(receipt)
	writerKey := fmt.Sprintf("%s_%s", topic, partition)

	p.mu.Lock()
	pw, ok := p.writers[writerKey]
	if !ok {
		pw, err = p.createNewWriter(writerKey, topic, partition)
		if err != nil {
			p.mu.Unlock()
			return fmt.Errorf("failed to create new writer: %w", err)
		}
	}
	writerMutex := p.writerMutexes[writerKey]
	p.mu.Unlock()

	writerMutex.Lock()
	defer writerMutex.Unlock()
	if err := pw.Write(row); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	return nil
}

// createNewWriter must be called with p.mu held.
func (p *ParquetOutput) createNewWriter(writerKey, topic, partition string) (*writer.ParquetWriter, error) {
	fileName := fmt.Sprintf("receipts-%s.parquet", p.runID)

	var fw source.ParquetFile
	var target string
	if p.cloudWriterFactory != nil {
		target = path.Join(p.folder, topic, partition, fileName)
		cloudWriter, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, target)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = NewCloudParquetFile(cloudWriter)
	} else {
		fullPath := filepath.Join(p.basePath, p.folder, topic, partition)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return nil, err
		}
		target = filepath.Join(fullPath, fileName)
		var err error
		fw, err = local.NewLocalFileWriter(target)
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	pw, err := writer.NewParquetWriter(fw, new(ReceiptRow), 1)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	p.writers[writerKey] = pw
	p.writerMutexes[writerKey] = &sync.Mutex{}
	p.files[writerKey] = fw
	p.paths[writerKey] = target
	return pw, nil
}

// Paths lists the files or object keys written so far.
func (p *ParquetOutput) Paths() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	paths := make([]string, 0, len(p.paths))
	for _, target := range p.paths {
		paths = append(paths, target)
	}
	return paths
}

func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for key, pw := range p.writers {
		mutex := p.writerMutexes[key]
		mutex.Lock()
		if err := pw.WriteStop(); err != nil {
			lastErr = err
			log.WithField("file", p.paths[key]).WithError(err).Error("error closing parquet writer")
		}
		if f, ok := p.files[key]; ok {
			if err := f.Close(); err != nil {
				lastErr = err
				log.WithField("file", p.paths[key]).WithError(err).Error("error closing parquet file")
			}
		}
		mutex.Unlock()
		delete(p.writers, key)
		delete(p.files, key)
	}
	return lastErr
}

// CloudParquetFile adapts a CloudWriter to the parquet writer's file
// interface. It is write-only.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCloudParquetFile(cloudWriter cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cloudWriter}
}

func (c *CloudParquetFile) Open(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Create(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read(p []byte) (n int, err error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (n int, err error) {
	n, err = c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}
