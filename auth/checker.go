package auth

// DefaultAccountChecker rejects disabled, locked and expired accounts before
// the password is checked, and accounts with expired credentials after.
type DefaultAccountChecker struct{}

// CheckPreAuth implements AccountChecker.
func (DefaultAccountChecker) CheckPreAuth(account Account) error {
	switch {
	case account.Locked():
		return AccountStatusError(StatusLocked)
	case !account.Enabled():
		return AccountStatusError(StatusDisabled)
	case account.Expired():
		return AccountStatusError(StatusExpired)
	}
	return nil
}

// CheckPostAuth implements AccountChecker.
func (DefaultAccountChecker) CheckPostAuth(account Account) error {
	if account.CredentialsExpired() {
		return AccountStatusError(StatusCredentialsExpired)
	}
	return nil
}
