package balancer

import (
	"hash/fnv"

	"github.com/segmentio/kafka-go"
)

type OrderBalancer struct {
	numPartitions int
}

func NewOrderBalancer(numPartitions int) *OrderBalancer {
	return &OrderBalancer{numPartitions: numPartitions}
}

// Order events are keyed by user id so one user's orders land on one
// partition and stay ordered for the back-office consumer.
func (b *OrderBalancer) Balance(msg kafka.Message, partitions ...int) (partition int) {
	h := fnv.New32a()
	h.Write(msg.Key)
	sum := int(h.Sum32())

	if len(partitions) != 0 {
		return partitions[sum%len(partitions)]
	}
	if b.numPartitions == 0 {
		return 0
	}
	return sum % b.numPartitions
}
