package kafka

import (
	"fmt"

	"github.com/andreyxaxa/Photo-Pipeline/internal/dto"
	"github.com/segmentio/kafka-go"
)

// decodeMessage reads a bucket notification from the message value and
// splits its records into uploads to process, records to skip and records
// rejected on their own.
func decodeMessage(msg kafka.Message) (*dto.Batch, error) {
	b, err := dto.Decode(msg.Value)
	if err != nil {
		return nil, fmt.Errorf("decodeMessage - dto.Decode: %w", err)
	}

	return b, nil
}
