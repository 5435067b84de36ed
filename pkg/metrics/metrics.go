// Package metrics 基于Prometheus的指标收集
//
// 指标分三类：
//   - HTTP：请求数、耗时、并发数（由中间件记录）
//   - 业务：下单、支付、评论、购物车操作（由用例记录）
//   - 基础设施：熔断器状态、事件发布结果
//
// 所有指标通过promauto注册到默认Registry，由Handler()暴露给Prometheus抓取。
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bookoutlet"

var (
	once sync.Once

	// HTTPRequestsTotal HTTP请求总数，标签：method、path、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时，标签：method、path
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// OrdersPlacedTotal 下单结果，标签：result（success/empty_cart/missing_address/failure）
	OrdersPlacedTotal *prometheus.CounterVec

	// OrderPlacementDuration 下单事务耗时
	OrderPlacementDuration prometheus.Histogram

	// OrderAmount 订单金额分布
	OrderAmount prometheus.Histogram

	// PaymentsProcessedTotal 支付处理，标签：result（confirmed/already_paid）
	PaymentsProcessedTotal *prometheus.CounterVec

	// ReviewsSubmittedTotal 评论提交，标签：result（created/updated/deleted）
	ReviewsSubmittedTotal *prometheus.CounterVec

	// CartOperationsTotal 购物车操作，标签：action（add/increase/decrease/remove）
	CartOperationsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态 0=CLOSED 1=OPEN 2=HALF_OPEN，标签：name
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求，标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// MessagesPublishedTotal 事件发布，标签：routing_key、result
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标，可重复调用
func InitMetrics() {
	once.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)
		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP请求耗时",
				Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"method", "path"},
		)
		HTTPRequestsInProgress = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_progress",
			Help:      "正在处理的HTTP请求数",
		})

		OrdersPlacedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_placed_total",
				Help:      "下单结果统计",
			},
			[]string{"result"},
		)
		OrderPlacementDuration = promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_placement_duration_seconds",
			Help:      "下单事务耗时",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		})
		OrderAmount = promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_amount",
			Help:      "订单金额分布",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000},
		})
		PaymentsProcessedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payments_processed_total",
				Help:      "支付处理统计",
			},
			[]string{"result"},
		)
		ReviewsSubmittedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reviews_total",
				Help:      "评论写入统计",
			},
			[]string{"result"},
		)
		CartOperationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cart_operations_total",
				Help:      "购物车操作统计",
			},
			[]string{"action"},
		)

		CircuitBreakerState = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_state",
				Help:      "熔断器状态 0=CLOSED 1=OPEN 2=HALF_OPEN",
			},
			[]string{"name"},
		)
		CircuitBreakerRequests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "circuit_breaker_requests_total",
				Help:      "熔断器请求统计",
			},
			[]string{"name", "result"},
		)
		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_published_total",
				Help:      "事件发布统计",
			},
			[]string{"routing_key", "result"},
		)
	})
}

// Handler /metrics端点
func Handler() http.Handler {
	InitMetrics()
	return promhttp.Handler()
}

// IncCounterVec 按标签递增，指标未初始化时忽略
func IncCounterVec(counter *prometheus.CounterVec, labels ...string) {
	if counter == nil {
		return
	}
	counter.WithLabelValues(labels...).Inc()
}

// ObserveHistogram 记录观测值，指标未初始化时忽略
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram == nil {
		return
	}
	histogram.Observe(value)
}

// SetGaugeVec 设置Gauge值，指标未初始化时忽略
func SetGaugeVec(gauge *prometheus.GaugeVec, value float64, labels ...string) {
	if gauge == nil {
		return
	}
	gauge.WithLabelValues(labels...).Set(value)
}
