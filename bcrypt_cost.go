//go:build !race

package board

func passwordHashCost() int {
	return 12
}
