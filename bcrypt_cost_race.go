//go:build race

package board

import "golang.org/x/crypto/bcrypt"

func passwordHashCost() int {
	return bcrypt.MinCost
}
