// Package archive exports the order history to Parquet, either to a local
// file or straight to S3 through the cloudwriter.
package archive

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/fooddash/fooddash/internal/cloudwriter"
	"github.com/fooddash/fooddash/internal/models"
)

// OrderRecord is the flattened Parquet row for one order.
type OrderRecord struct {
	ID                int64   `parquet:"name=id, type=INT64"`
	Status            string  `parquet:"name=status, type=BYTE_ARRAY, convertedtype=UTF8"`
	RestaurantID      string  `parquet:"name=restaurant_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	RestaurantName    string  `parquet:"name=restaurant_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	ItemCount         int32   `parquet:"name=item_count, type=INT32"`
	Subtotal          float64 `parquet:"name=subtotal, type=DOUBLE"`
	DeliveryFee       float64 `parquet:"name=delivery_fee, type=DOUBLE"`
	Tax               float64 `parquet:"name=tax, type=DOUBLE"`
	Total             float64 `parquet:"name=total, type=DOUBLE"`
	OrderTime         int64   `parquet:"name=order_time, type=INT64"`
	EstimatedDelivery int64   `parquet:"name=estimated_delivery, type=INT64"`
	DeliveredAt       int64   `parquet:"name=delivered_at, type=INT64"`
}

// Exporter writes a set of orders as one Parquet object.
type Exporter struct {
	path               string
	destination        string // "local" or "s3"
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

func NewExporter(cfg *models.Config) (*Exporter, error) {
	e := &Exporter{
		path:        cfg.ArchivePath,
		destination: cfg.ArchiveDestination,
	}
	if cfg.ArchiveDestination == "s3" {
		factory, err := cloudwriter.NewS3WriterFactory(cfg.CloudStorage.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		e.cloudWriterFactory = factory
		e.cloudBucketName = cfg.CloudStorage.BucketName
	}
	return e, nil
}

// Export writes every order as one row. The object name is the configured
// archive path.
func (e *Exporter) Export(orders []*models.Order) error {
	fw, err := e.openFile()
	if err != nil {
		return err
	}

	pw, err := writer.NewParquetWriter(fw, new(OrderRecord), 4)
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	for _, order := range orders {
		if err := pw.Write(toRecord(order)); err != nil {
			fw.Close()
			return fmt.Errorf("failed to write order %d: %w", order.ID, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return fw.Close()
}

func (e *Exporter) openFile() (source.ParquetFile, error) {
	if e.cloudWriterFactory != nil {
		objectPath := filepath.ToSlash(e.path)
		cw, err := e.cloudWriterFactory.NewWriter(e.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		return newBufferedParquetFile(cw), nil
	}
	fw, err := local.NewLocalFileWriter(e.path)
	if err != nil {
		return nil, fmt.Errorf("failed to create local file writer: %w", err)
	}
	return fw, nil
}

func toRecord(order *models.Order) OrderRecord {
	rec := OrderRecord{
		ID:                order.ID,
		Status:            order.Status,
		RestaurantID:      order.Restaurant.ID,
		RestaurantName:    order.Restaurant.Name,
		ItemCount:         int32(len(order.Items)),
		Subtotal:          order.Subtotal,
		DeliveryFee:       order.DeliveryFee,
		Tax:               order.Tax,
		Total:             order.Total,
		OrderTime:         order.OrderTime.Unix(),
		EstimatedDelivery: order.EstimatedDelivery.Unix(),
	}
	if step := order.Step(models.OrderStatusDelivered); step != nil && step.Completed && step.Timestamp != nil {
		rec.DeliveredAt = step.Timestamp.Unix()
	}
	return rec
}

// ArchiveObjectName builds a dated default object name for exports.
func ArchiveObjectName(now time.Time) string {
	return fmt.Sprintf("orders-%s.parquet", now.Format("2006-01-02"))
}

// bufferedParquetFile adapts a CloudWriter to the parquet source interface.
// Reads and seeks are not supported; the writer streams forward only.
type bufferedParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func newBufferedParquetFile(cw cloudwriter.CloudWriter) *bufferedParquetFile {
	return &bufferedParquetFile{cloudWriter: cw}
}

func (b *bufferedParquetFile) Open(name string) (source.ParquetFile, error)   { return b, nil }
func (b *bufferedParquetFile) Create(name string) (source.ParquetFile, error) { return b, nil }

func (b *bufferedParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		b.offset = offset
	case io.SeekCurrent:
		b.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return b.offset, nil
}

func (b *bufferedParquetFile) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (b *bufferedParquetFile) Write(p []byte) (int, error) {
	return b.cloudWriter.Write(p)
}

func (b *bufferedParquetFile) Close() error {
	return b.cloudWriter.Close()
}
