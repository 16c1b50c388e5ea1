package metrics

import (
	"strings"
	"testing"

	"github.com/d3ce1t/turtlelink/idgen"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGenCollector(t *testing.T) {
	gen, err := idgen.NewIDGen(3, 4)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := gen.NextID()
		require.NoError(t, err)
	}

	collector := NewIDGenCollector(gen)
	assert.Equal(t, 4, testutil.CollectAndCount(collector))

	expected := `
# HELP turtlelink_idgen_issued_total IDs returned by the generator
# TYPE turtlelink_idgen_issued_total counter
turtlelink_idgen_issued_total{datacenter_id="4",worker_id="3"} 10
`
	err = testutil.CollectAndCompare(collector, strings.NewReader(expected), "turtlelink_idgen_issued_total")
	assert.NoError(t, err)

	reg := prometheus.NewPedanticRegistry()
	assert.NoError(t, reg.Register(collector))
}
