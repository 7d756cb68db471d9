package daichi

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector exports the state of every Daichi device on scrape.
type MetricsCollector struct {
	client *Client

	success       prometheus.Gauge
	devices       prometheus.Gauge
	currentTemp   *prometheus.GaugeVec
	powerOn       *prometheus.GaugeVec
	status        *prometheus.GaugeVec
	functionValue *prometheus.GaugeVec
	functionOn    *prometheus.GaugeVec
}

func NewMetricsCollector(client *Client) *MetricsCollector {
	labels := []string{"device_id", "device_name"}
	functionLabels := []string{"device_id", "device_name", "function_id", "function"}
	return &MetricsCollector{
		client: client,
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gohome_daichi_scrape_success",
			Help: "Last scrape success (1=ok, 0=error)",
		}),
		devices: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gohome_daichi_devices",
			Help: "Number of devices returned by the last scrape",
		}),
		currentTemp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gohome_daichi_current_temperature_celsius",
			Help: "Temperature reported by the device (celsius)",
		}, labels),
		powerOn: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gohome_daichi_power_on",
			Help: "Whether the device is switched on (1=on, 0=off)",
		}, labels),
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gohome_daichi_status",
			Help: "Connection status reported by the cloud (1=current status)",
		}, []string{"device_id", "device_name", "status"}),
		functionValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gohome_daichi_function_value",
			Help: "Numeric value of a device function",
		}, functionLabels),
		functionOn: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gohome_daichi_function_on",
			Help: "Whether a device function is on (1=on, 0=off)",
		}, functionLabels),
	}
}

func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	c.success.Describe(ch)
	c.devices.Describe(ch)
	c.currentTemp.Describe(ch)
	c.powerOn.Describe(ch)
	c.status.Describe(ch)
	c.functionValue.Describe(ch)
	c.functionOn.Describe(ch)
}

func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	devices, err := c.client.Devices(ctx)
	if err != nil {
		c.success.Set(0)
		c.collect(ch)
		return
	}

	c.currentTemp.Reset()
	c.powerOn.Reset()
	c.status.Reset()
	c.functionValue.Reset()
	c.functionOn.Reset()

	for _, device := range devices {
		id := strconv.Itoa(device.ID)
		c.currentTemp.WithLabelValues(id, device.Title).Set(device.CurTemp)
		c.powerOn.WithLabelValues(id, device.Title).Set(boolToFloat(device.State.IsOn))
		c.status.WithLabelValues(id, device.Title, device.Status).Set(1)

		for _, group := range device.Pult {
			for _, fn := range group.Functions {
				fnID := strconv.Itoa(fn.ID)
				c.functionOn.WithLabelValues(id, device.Title, fnID, fn.Name()).Set(boolToFloat(fn.State.IsOn))
				if value, ok := fn.State.NumericValue(); ok {
					c.functionValue.WithLabelValues(id, device.Title, fnID, fn.Name()).Set(value)
				}
			}
		}
	}

	c.devices.Set(float64(len(devices)))
	c.success.Set(1)
	c.collect(ch)
}

func (c *MetricsCollector) collect(ch chan<- prometheus.Metric) {
	c.currentTemp.Collect(ch)
	c.powerOn.Collect(ch)
	c.status.Collect(ch)
	c.functionValue.Collect(ch)
	c.functionOn.Collect(ch)
	c.devices.Collect(ch)
	c.success.Collect(ch)
}

func boolToFloat(value bool) float64 {
	if value {
		return 1
	}
	return 0
}
