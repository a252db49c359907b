package env

import (
	"os"
)

// PodName example: k8ssta-auctioneer-6868d88fbd-bz8zv. Falls back to the
// host name outside of kubernetes.
func PodName() string {
	if name := os.Getenv("PODNAME"); name != "" {
		return name
	}
	name, _ := os.Hostname()
	return name
}
