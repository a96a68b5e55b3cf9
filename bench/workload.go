package bench

import (
	"errors"
	"hash/fnv"
	"math/rand"
	"strconv"

	"github.com/cubefs/metabench/common/config"
)

const (
	OpRead   = "READ"
	OpUpdate = "UPDATE"
	OpInsert = "INSERT"
	OpDelete = "DELETE"
	OpScan   = "SCAN"
)

var ErrNoOperation = errors.New("all operation proportions are zero")

// Workload describes a load or run phase, keyed like a YCSB workload file.
type Workload struct {
	Table          string `mapstructure:"table" validate:"required"`
	RecordCount    int    `mapstructure:"recordcount" validate:"gte=0"`
	OperationCount int    `mapstructure:"operationcount" validate:"gte=0"`
	ThreadCount    int    `mapstructure:"threadcount" validate:"gte=1"`
	// Target caps the total ops per second, zero means unthrottled.
	Target      int `mapstructure:"target" validate:"gte=0"`
	FieldCount  int `mapstructure:"fieldcount" validate:"gte=0"`
	FieldLength int `mapstructure:"fieldlength" validate:"gte=0"`
	ScanLength  int `mapstructure:"scanlength" validate:"gte=1"`

	ReadProportion   float64 `mapstructure:"readproportion" validate:"gte=0,lte=1"`
	UpdateProportion float64 `mapstructure:"updateproportion" validate:"gte=0,lte=1"`
	InsertProportion float64 `mapstructure:"insertproportion" validate:"gte=0,lte=1"`
	DeleteProportion float64 `mapstructure:"deleteproportion" validate:"gte=0,lte=1"`
	ScanProportion   float64 `mapstructure:"scanproportion" validate:"gte=0,lte=1"`
}

func WorkloadDefaults() map[string]interface{} {
	return map[string]interface{}{
		"table":            "usertable",
		"recordcount":      1000,
		"operationcount":   1000,
		"threadcount":      1,
		"target":           0,
		"fieldcount":       10,
		"fieldlength":      100,
		"scanlength":       100,
		"readproportion":   0.95,
		"updateproportion": 0.05,
		"insertproportion": 0,
		"deleteproportion": 0,
		"scanproportion":   0,
	}
}

func LoadWorkload(p *config.Properties) (*Workload, error) {
	w := &Workload{}
	if err := p.Unmarshal(w); err != nil {
		return nil, err
	}
	return w, nil
}

// BuildKey names record seq. Keys are hashed so that consecutive inserts
// spread over the key space.
func BuildKey(seq int64) string {
	h := fnv.New64a()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(seq >> (8 * i))
	}
	h.Write(buf[:])
	return "user" + strconv.FormatUint(h.Sum64(), 10)
}

type opChooser struct {
	ops     []string
	weights []float64
	total   float64
}

func newOpChooser(w *Workload) (*opChooser, error) {
	c := &opChooser{}
	for _, op := range []struct {
		name   string
		weight float64
	}{
		{OpRead, w.ReadProportion},
		{OpUpdate, w.UpdateProportion},
		{OpInsert, w.InsertProportion},
		{OpDelete, w.DeleteProportion},
		{OpScan, w.ScanProportion},
	} {
		if op.weight <= 0 {
			continue
		}
		c.total += op.weight
		c.ops = append(c.ops, op.name)
		c.weights = append(c.weights, c.total)
	}
	if len(c.ops) == 0 {
		return nil, ErrNoOperation
	}
	return c, nil
}

func (c *opChooser) next(r *rand.Rand) string {
	v := r.Float64() * c.total
	for i, w := range c.weights {
		if v < w {
			return c.ops[i]
		}
	}
	return c.ops[len(c.ops)-1]
}

func buildValues(r *rand.Rand, fieldCount, fieldLength int) map[string][]byte {
	values := make(map[string][]byte, fieldCount)
	for i := 0; i < fieldCount; i++ {
		v := make([]byte, fieldLength)
		for j := range v {
			v[j] = byte(' ' + r.Intn(95))
		}
		values["field"+strconv.Itoa(i)] = v
	}
	return values
}
