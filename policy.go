package board

// RequirePresent rejects a missing user with ErrUnauthenticated
func RequirePresent(user *User) (*User, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// RequireActive rejects an inactive user with ErrAccountDisabled
func RequireActive(user *User) (*User, error) {
	if _, err := RequirePresent(user); err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// RequireAdmin passes the user through only when it holds the admin flag
func RequireAdmin(user *User) (*User, error) {
	if _, err := RequirePresent(user); err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, ErrForbidden
	}
	return user, nil
}

// RequireOwner allows only the author of the resource
func RequireOwner(user *User, authorID int64) error {
	if _, err := RequirePresent(user); err != nil {
		return err
	}
	if user.ID != authorID {
		return ErrForbidden
	}
	return nil
}

// RequireOwnerOrAdmin allows the author of the resource or any admin
func RequireOwnerOrAdmin(user *User, authorID int64) error {
	if !CanModify(user, authorID) {
		if user == nil {
			return ErrUnauthenticated
		}
		return ErrForbidden
	}
	return nil
}

// CanModify is the boolean form of RequireOwnerOrAdmin
func CanModify(user *User, authorID int64) bool {
	if user == nil {
		return false
	}
	return user.ID == authorID || user.IsAdmin
}
