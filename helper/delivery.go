package helper

import "strings"

const (
	FreeShippingThreshold int64 = 500000
	MajorCityDeliveryFee  int64 = 20000
	DefaultDeliveryFee    int64 = 30000
)

var majorCities = map[string]bool{
	"hà nội":      true,
	"hồ chí minh": true,
	"đà nẵng":     true,
	"hải phòng":   true,
	"cần thơ":     true,
}

var provincePrefixes = []string{"thành phố ", "tp. ", "tp.", "tp ", "tỉnh "}

func normalizeProvince(province string) string {
	p := strings.ToLower(strings.TrimSpace(province))
	for _, prefix := range provincePrefixes {
		if strings.HasPrefix(p, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(p, prefix))
		}
	}
	return p
}

func IsMajorCity(province string) bool {
	return majorCities[normalizeProvince(province)]
}

// CalculateDeliveryFee returns the shipping fee in VND for an order subtotal.
func CalculateDeliveryFee(province string, subtotal int64) int64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	if IsMajorCity(province) {
		return MajorCityDeliveryFee
	}
	return DefaultDeliveryFee
}
