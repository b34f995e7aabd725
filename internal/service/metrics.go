package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// uploadPartsTotal 按结果统计处理过的上传分片
	uploadPartsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upload_parts_total",
			Help: "Total number of multipart parts processed, by outcome",
		},
		[]string{"status"},
	)

	// uploadBytesTotal 记录成功落盘并登记的字节数
	uploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "upload_bytes_total",
		Help: "Total number of bytes stored for registered files",
	})
)
