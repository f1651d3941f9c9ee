// Package receipts publishes a record of every accepted order to the
// configured destinations. Publishing is best effort: a failing destination
// is logged and never affects the order itself.
package receipts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/chrisdamba/kioskorder/internal/models"
	log "github.com/sirupsen/logrus"
)

// Destination receives JSON-encoded receipts.
type Destination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

type namedDestination struct {
	name string
	dest Destination
}

type Publisher struct {
	topic        string
	destinations []namedDestination
}

func NewPublisher(topic string) *Publisher {
	return &Publisher{topic: topic}
}

func (p *Publisher) Add(name string, dest Destination) {
	p.destinations = append(p.destinations, namedDestination{name: name, dest: dest})
}

func (p *Publisher) Len() int {
	return len(p.destinations)
}

// Open builds a publisher for every destination named in cfg. If any of them
// cannot be opened, the ones already opened are closed again.
func Open(ctx context.Context, cfg models.ReceiptsConfig) (*Publisher, error) {
	p := NewPublisher(cfg.KafkaTopic)
	for _, name := range cfg.Destinations {
		dest, err := openDestination(ctx, name, cfg)
		if err != nil {
			if closeErr := p.Close(); closeErr != nil {
				log.WithError(closeErr).Warn("failed to close receipt destinations")
			}
			return nil, fmt.Errorf("open receipt destination %s: %w", name, err)
		}
		p.Add(name, dest)
	}
	return p, nil
}

func openDestination(ctx context.Context, name string, cfg models.ReceiptsConfig) (Destination, error) {
	switch name {
	case models.DestinationConsole:
		return NewConsoleOutput(os.Stdout), nil
	case models.DestinationJSON:
		return NewJSONOutput(cfg.OutputPath, cfg.OutputFolder), nil
	case models.DestinationParquet:
		return NewParquetOutput(cfg)
	case models.DestinationKafka:
		return NewKafkaOutput(cfg.KafkaBrokerList)
	case models.DestinationPostgres:
		return OpenPostgresOutput(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported receipt destination: %s", name)
	}
}

// Publish sends receipt to every destination. Each failure is logged; the
// returned error joins them for callers that care.
func (p *Publisher) Publish(receipt *models.Receipt) error {
	msg, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}

	var errs []error
	for _, d := range p.destinations {
		if err := d.dest.WriteMessage(p.topic, msg); err != nil {
			log.WithFields(log.Fields{
				"destination": d.name,
				"order_id":    receipt.OrderID,
			}).WithError(err).Error("failed to publish receipt")
			errs = append(errs, fmt.Errorf("%s: %w", d.name, err))
			continue
		}
		log.WithFields(log.Fields{
			"destination": d.name,
			"order_id":    receipt.OrderID,
		}).Debug("receipt published")
	}
	return errors.Join(errs...)
}

func (p *Publisher) Close() error {
	var errs []error
	for _, d := range p.destinations {
		if err := d.dest.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.name, err))
		}
	}
	p.destinations = nil
	return errors.Join(errs...)
}

func decodeReceipt(msg []byte) (*models.Receipt, error) {
	var receipt models.Receipt
	if err := json.Unmarshal(msg, &receipt); err != nil {
		return nil, fmt.Errorf("decode receipt: %w", err)
	}
	if receipt.OrderID == "" {
		return nil, errors.New("receipt has no order id")
	}
	return &receipt, nil
}

// partitionPath lays receipts out by the hour they were placed.
func partitionPath(receipt *models.Receipt) string {
	placed := receipt.PlacedAt.UTC()
	year, month, day := placed.Date()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d/hour=%02d", year, month, day, placed.Hour())
}
