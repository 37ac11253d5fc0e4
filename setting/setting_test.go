package setting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	cases := map[string]func(c *Config){
		"throughput":   func(c *Config) { c.Throughput = 0 },
		"ring queue":   func(c *Config) { c.RingQueue = -1 },
		"stop timeout": func(c *Config) { c.StopTimeout = 0 },
		"period":       func(c *Config) { c.Period = 0 },
		"duration":     func(c *Config) { c.Duration = -time.Second },
		"rotation":     func(c *Config) { c.LogFile = "x.log"; c.LogRotation = 0 },
		"topic":        func(c *Config) { c.KafkaBrokers = []string{"k:9092"}; c.LogTopic = "" },
		"slice":        func(c *Config) { c.LogSlice = "week" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func run(t *testing.T, args ...string) (*Config, error) {
	var (
		got    *Config
		gotErr error
	)
	app := cli.NewApp()
	app.Flags = Flags()
	app.Action = func(ctx *cli.Context) error {
		got, gotErr = FromContext(ctx)
		return nil
	}
	require.NoError(t, app.Run(append([]string{"fiberd"}, args...)))
	return got, gotErr
}

func TestFromContextDefaults(t *testing.T) {
	c, err := run(t)
	require.NoError(t, err)
	d := Default()
	assert.Equal(t, d.Throughput, c.Throughput)
	assert.Equal(t, d.Period, c.Period)
	assert.Equal(t, d.MetricsAddr, c.MetricsAddr)
	assert.Empty(t, c.KafkaBrokers)
}

func TestFromContextFlags(t *testing.T) {
	c, err := run(t,
		"--throughput", "10",
		"--ring-queue", "64",
		"--period", "250ms",
		"--duration", "0s",
		"--kafka", "a:9092", "--kafka", "b:9092",
		"--log-slice", "hour",
	)
	require.NoError(t, err)
	assert.Equal(t, 10, c.Throughput)
	assert.EqualValues(t, 64, c.RingQueue)
	assert.Equal(t, 250*time.Millisecond, c.Period)
	assert.Zero(t, c.Duration)
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.KafkaBrokers)
	assert.Equal(t, "hour", c.LogSlice)
}

func TestFromContextInvalid(t *testing.T) {
	_, err := run(t, "--throughput", "0")
	assert.Error(t, err)
}
