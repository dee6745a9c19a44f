// Package validation содержит функции валидации входных данных.
package validation

import (
	"strconv"
	"strings"
)

// ParseQuantity преобразует пользовательский ввод в количество товара.
// Некорректные и отрицательные значения отображаются в ноль, который
// поверхности трактуют как пустую строку заказа.
func ParseQuantity(raw string) int {
	q, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || q < 0 {
		return 0
	}
	return q
}
