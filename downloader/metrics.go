package downloader

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	downloadCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "departures_download_count",
		Help: "Number of documents downloaded from upstream (uncached)",
	}, []string{"cache"})
	cachedCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "departures_cached_count",
		Help: "Number of documents served from cache",
	}, []string{"cache"})
	errorCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "departures_download_error_count",
		Help: "Number of failed document downloads",
	}, []string{"cache"})
)

func init() {
	prometheus.MustRegister(downloadCount, cachedCount, errorCount)
}

func countDownload(cache string, err error) {
	if err != nil {
		errorCount.With(prometheus.Labels{"cache": cache}).Inc()
		return
	}
	downloadCount.With(prometheus.Labels{"cache": cache}).Inc()
}

func countCached(cache string) {
	cachedCount.With(prometheus.Labels{"cache": cache}).Inc()
}
