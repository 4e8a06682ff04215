package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/resto-pos/models"
	"github.com/yeremiapane/resto-pos/utils"
)

// Periode laporan yang dikenal.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// AnalyticsService membaca angka penjualan dari bill yang sudah paid.
// Jendela waktu dihitung pada paid_at; bucketing per jam/hari dilakukan
// di Go memakai timezone resto supaya hasilnya sama di MySQL dan SQLite.
type AnalyticsService struct {
	DB  *gorm.DB
	Loc *time.Location

	// Now bisa diganti di test untuk membekukan jam.
	Now func() time.Time
}

func NewAnalyticsService(db *gorm.DB, loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.Local
	}
	return &AnalyticsService{
		DB:  db,
		Loc: loc,
		Now: time.Now,
	}
}

// ResolveWindow menerjemahkan nama periode ke rentang waktu. today
// adalah hari kalender di timezone resto; week/month/year adalah
// 7/30/365 hari bergulir yang berakhir sekarang.
func (s *AnalyticsService) ResolveWindow(period string) (time.Time, time.Time, error) {
	now := s.Now().In(s.Loc)
	switch period {
	case "", PeriodToday:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.Loc)
		return start, start.Add(24*time.Hour - time.Second), nil
	case PeriodWeek:
		return now.AddDate(0, 0, -7), now, nil
	case PeriodMonth:
		return now.AddDate(0, 0, -30), now, nil
	case PeriodYear:
		return now.AddDate(0, 0, -365), now, nil
	default:
		return time.Time{}, time.Time{}, utils.NewValidationError("invalid period %q", period)
	}
}

// PeriodStats adalah ringkasan penjualan satu jendela.
type PeriodStats struct {
	Period             string    `json:"period"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	TotalRevenue       float64   `json:"total_revenue"`
	TotalOrders        int64     `json:"total_orders"`
	TotalBills         int64     `json:"total_bills"`
	AvgOrderValue      float64   `json:"avg_order_value"`
	AvgBillValue       float64   `json:"avg_bill_value"`
	RepeatCustomerRate float64   `json:"repeat_customer_rate"`
}

type ItemStat struct {
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type HourBucket struct {
	Hour    int     `json:"hour"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type DayBucket struct {
	Date    string  `json:"date"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type ComboStat struct {
	ItemA string `json:"item_a"`
	ItemB string `json:"item_b"`
	Count int64  `json:"count"`
}

type CustomerStats struct {
	Period         string `json:"period"`
	TotalCustomers int64  `json:"total_customers"`
	NewCustomers   int64  `json:"new_customers"`
}

type GrowthStats struct {
	Period          string  `json:"period"`
	CurrentRevenue  float64 `json:"current_revenue"`
	PreviousRevenue float64 `json:"previous_revenue"`
	RevenueGrowth   float64 `json:"revenue_growth"`
	CurrentOrders   int64   `json:"current_orders"`
	PreviousOrders  int64   `json:"previous_orders"`
	OrderGrowth     float64 `json:"order_growth"`
}

// baris proyeksi bill paid di satu jendela
type paidBillRow struct {
	PaidAt        *time.Time
	Total         float64
	OrderCount    int64
	CustomerPhone string
}

func (s *AnalyticsService) paidBills(start, end time.Time) ([]paidBillRow, error) {
	var rows []paidBillRow
	err := s.DB.Model(&models.Bill{}).
		Select("paid_at", "total", "order_count", "customer_phone").
		Where("billing_status = ? AND paid_at >= ? AND paid_at <= ?", models.BillingStatusPaid, start, end).
		Find(&rows).Error
	if err != nil {
		return nil, utils.NewQueryError("load paid bills", err)
	}
	return rows, nil
}

// Stats merangkum revenue, jumlah order, dan rata-ratanya untuk satu
// periode. Order yang dihitung adalah order_count pada bill paid, jadi
// order cancelled tidak pernah ikut.
func (s *AnalyticsService) Stats(period string) (*PeriodStats, error) {
	start, end, err := s.ResolveWindow(period)
	if err != nil {
		return nil, err
	}
	return s.statsWindow(period, start, end)
}

func (s *AnalyticsService) statsWindow(period string, start, end time.Time) (*PeriodStats, error) {
	rows, err := s.paidBills(start, end)
	if err != nil {
		return nil, err
	}

	stats := &PeriodStats{
		Period:    normalizePeriod(period),
		StartDate: start,
		EndDate:   end,
	}
	phoneBills := make(map[string]int64)
	for _, row := range rows {
		stats.TotalRevenue += row.Total
		stats.TotalOrders += row.OrderCount
		stats.TotalBills++
		if row.CustomerPhone != "" {
			phoneBills[row.CustomerPhone]++
		}
	}
	if stats.TotalOrders > 0 {
		stats.AvgOrderValue = stats.TotalRevenue / float64(stats.TotalOrders)
	}
	if stats.TotalBills > 0 {
		stats.AvgBillValue = stats.TotalRevenue / float64(stats.TotalBills)
	}
	if len(phoneBills) > 0 {
		var repeat int64
		for _, n := range phoneBills {
			if n >= 2 {
				repeat++
			}
		}
		stats.RepeatCustomerRate = float64(repeat) / float64(len(phoneBills)) * 100
	}
	return stats, nil
}

func normalizePeriod(period string) string {
	if period == "" {
		return PeriodToday
	}
	return period
}

// itemStats menjumlahkan kuantitas dan revenue per nama item dari
// bill_items milik bill paid di jendela.
func (s *AnalyticsService) itemStats(start, end time.Time, order string, limit int) ([]ItemStat, error) {
	var rows []ItemStat
	err := s.DB.Table("bill_items").
		Select("bill_items.name AS name, SUM(bill_items.quantity) AS quantity, SUM(bill_items.price * bill_items.quantity) AS revenue").
		Joins("JOIN bills ON bills.id = bill_items.bill_id").
		Where("bills.billing_status = ? AND bills.paid_at >= ? AND bills.paid_at <= ?", models.BillingStatusPaid, start, end).
		Group("bill_items.name").
		Order("quantity " + order).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, utils.NewQueryError("aggregate bill items", err)
	}
	return rows, nil
}

// TopItems mengembalikan item terlaris berdasarkan kuantitas terjual.
func (s *AnalyticsService) TopItems(period string, limit int) ([]ItemStat, error) {
	start, end, err := s.ResolveWindow(period)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	return s.itemStats(start, end, "DESC", limit)
}

// LeastItems mengembalikan item paling jarang terjual (yang tetap
// pernah terjual di jendela; item tanpa penjualan tidak muncul).
func (s *AnalyticsService) LeastItems(period string, limit int) ([]ItemStat, error) {
	start, end, err := s.ResolveWindow(period)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	return s.itemStats(start, end, "ASC", limit)
}

// PeakHours mengelompokkan bill paid per jam lokal, diurutkan dari jam
// teramai. Jam tanpa transaksi tidak dikembalikan.
func (s *AnalyticsService) PeakHours(period string) ([]HourBucket, error) {
	start, end, err := s.ResolveWindow(period)
	if err != nil {
		return nil, err
	}
	rows, err := s.paidBills(start, end)
	if err != nil {
		return nil, err
	}

	buckets := make(map[int]*HourBucket)
	for _, row := range rows {
		if row.PaidAt == nil {
			continue
		}
		h := row.PaidAt.In(s.Loc).Hour()
		b, ok := buckets[h]
		if !ok {
			b = &HourBucket{Hour: h}
			buckets[h] = b
		}
		b.Orders += row.OrderCount
		b.Revenue += row.Total
	}

	out := make([]HourBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orders != out[j].Orders {
			return out[i].Orders > out[j].Orders
		}
		return out[i].Hour < out[j].Hour
	})
	return out, nil
}

// RevenueByHour mengembalikan 24 bucket (0-23) untuk grafik harian.
// Jam kosong tetap ada dengan nilai nol.
func (s *AnalyticsService) RevenueByHour(period string) ([]HourBucket, error) {
	start, end, err := s.ResolveWindow(period)
	if err != nil {
		return nil, err
	}
	rows, err := s.paidBills(start, end)
	if err != nil {
		return nil, err
	}

	out := make([]HourBucket, 24)
	for i := range out {
		out[i].Hour = i
	}
	for _, row := range rows {
		if row.PaidAt == nil {
			continue
		}
		h := row.PaidAt.In(s.Loc).Hour()
		out[h].Orders += row.OrderCount
		out[h].Revenue += row.Total
	}
	return out, nil
}

// RevenueByDay mengelompokkan bill paid per tanggal lokal, urut naik.
func (s *AnalyticsService) RevenueByDay(period string) ([]DayBucket, error) {
	start, end, err := s.ResolveWindow(period)
	if err != nil {
		return nil, err
	}
	rows, err := s.paidBills(start, end)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*DayBucket)
	for _, row := range rows {
		if row.PaidAt == nil {
			continue
		}
		day := row.PaidAt.In(s.Loc).Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			b = &DayBucket{Date: day}
			buckets[day] = b
		}
		b.Orders += row.OrderCount
		b.Revenue += row.Total
	}

	out := make([]DayBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// RecentSales mengembalikan record penjualan terbaru (hasil derivasi
// order served), terbaru dulu.
func (s *AnalyticsService) RecentSales(limit int) ([]models.SalesRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []models.SalesRecord
	err := s.DB.Preload("Items").
		Order("served_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, utils.NewQueryError("load recent sales", err)
	}
	return records, nil
}

// NewCustomers menghitung nomor telepon yang bill paid pertamanya jatuh
// di jendela. Bill tanpa nomor telepon dilewati.
func (s *AnalyticsService) NewCustomers(period string) (*CustomerStats, error) {
	start, end, err := s.ResolveWindow(period)
	if err != nil {
		return nil, err
	}

	var rows []paidBillRow
	if err := s.DB.Model(&models.Bill{}).
		Select("paid_at", "customer_phone").
		Where("billing_status = ? AND customer_phone <> ''", models.BillingStatusPaid).
		Find(&rows).Error; err != nil {
		return nil, utils.NewQueryError("load paid bills", err)
	}

	firstPaid := make(map[string]time.Time)
	inWindow := make(map[string]bool)
	for _, row := range rows {
		if row.PaidAt == nil {
			continue
		}
		at := *row.PaidAt
		if prev, ok := firstPaid[row.CustomerPhone]; !ok || at.Before(prev) {
			firstPaid[row.CustomerPhone] = at
		}
		if !at.Before(start) && !at.After(end) {
			inWindow[row.CustomerPhone] = true
		}
	}

	stats := &CustomerStats{Period: normalizePeriod(period)}
	stats.TotalCustomers = int64(len(inWindow))
	for phone := range inWindow {
		first := firstPaid[phone]
		if !first.Before(start) && !first.After(end) {
			stats.NewCustomers++
		}
	}
	return stats, nil
}

// PopularCombos menghitung pasangan item yang paling sering muncul di
// bill yang sama.
func (s *AnalyticsService) PopularCombos(period string, limit int) ([]ComboStat, error) {
	start, end, err := s.ResolveWindow(period)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	var rows []struct {
		BillID uint
		Name   string
	}
	err = s.DB.Table("bill_items").
		Select("bill_items.bill_id AS bill_id, bill_items.name AS name").
		Joins("JOIN bills ON bills.id = bill_items.bill_id").
		Where("bills.billing_status = ? AND bills.paid_at >= ? AND bills.paid_at <= ?", models.BillingStatusPaid, start, end).
		Scan(&rows).Error
	if err != nil {
		return nil, utils.NewQueryError("load bill items", err)
	}

	// nama item unik per bill
	perBill := make(map[uint]map[string]bool)
	for _, row := range rows {
		set, ok := perBill[row.BillID]
		if !ok {
			set = make(map[string]bool)
			perBill[row.BillID] = set
		}
		set[row.Name] = true
	}

	pairCount := make(map[[2]string]int64)
	for _, set := range perBill {
		names := make([]string, 0, len(set))
		for n := range set {
			names = append(names, n)
		}
		sort.Strings(names)
		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				pairCount[[2]string{names[i], names[j]}]++
			}
		}
	}

	out := make([]ComboStat, 0, len(pairCount))
	for pair, count := range pairCount {
		out = append(out, ComboStat{ItemA: pair[0], ItemB: pair[1], Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].ItemA != out[j].ItemA {
			return out[i].ItemA < out[j].ItemA
		}
		return out[i].ItemB < out[j].ItemB
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Growth membandingkan jendela berjalan dengan jendela sebelumnya yang
// sama panjang. Pembanding nol berarti 100% kalau sekarang ada angka,
// 0% kalau sama-sama kosong.
func (s *AnalyticsService) Growth(period string) (*GrowthStats, error) {
	start, end, err := s.ResolveWindow(period)
	if err != nil {
		return nil, err
	}

	current, err := s.statsWindow(period, start, end)
	if err != nil {
		return nil, err
	}

	span := end.Sub(start) + time.Second
	previous, err := s.statsWindow(period, start.Add(-span), start.Add(-time.Second))
	if err != nil {
		return nil, err
	}

	return &GrowthStats{
		Period:          normalizePeriod(period),
		CurrentRevenue:  current.TotalRevenue,
		PreviousRevenue: previous.TotalRevenue,
		RevenueGrowth:   growthPct(current.TotalRevenue, previous.TotalRevenue),
		CurrentOrders:   current.TotalOrders,
		PreviousOrders:  previous.TotalOrders,
		OrderGrowth:     growthPct(float64(current.TotalOrders), float64(previous.TotalOrders)),
	}, nil
}

func growthPct(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}
