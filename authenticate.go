package passkey

import "fmt"

// VerifyAuthentication validates a client's signed authentication ceremony
// response against a previously stored credential and the expected challenge
// and origin, then confirms liveness through signature counter monotonicity.
// On success it returns the counter value the caller must persist. It performs
// no storage I/O.
func VerifyAuthentication(auth *AuthenticationPayload, credential CredentialKey, expected AuthenticationChecks) (uint32, error) {
	clientData, clientDataRaw, err := DecodeClientData(auth.ClientData)
	if err != nil {
		return 0, err
	}

	authData, authDataRaw, err := DecodeAuthenticatorData(auth.AuthenticatorData)
	if err != nil {
		return 0, err
	}

	sig, err := decodeBase64(auth.Signature)
	if err != nil {
		return 0, fmt.Errorf("%w: signature is not valid base64: %s", ErrMalformedCeremony, err)
	}

	if clientData.Type != CeremonyGet {
		return 0, fmt.Errorf("%w: clientData type is %q, want %q", ErrMalformedCeremony, clientData.Type, CeremonyGet)
	}

	if auth.CredentialID != credential.ID {
		return 0, fmt.Errorf("%w: payload credential id does not match the supplied credential", ErrMalformedCeremony)
	}

	if err := checkChallengeAndOrigin(clientData, authData, expected.Challenge, expected.Origin, expected.RPID); err != nil {
		return 0, err
	}

	if err := checkFlags(authData, expected.UserVerification); err != nil {
		return 0, err
	}

	key, err := parseCOSEKey(credential.PublicKey)
	if err != nil {
		return 0, err
	}

	if err := key.Verify(signedMessage(authDataRaw, clientDataRaw), sig); err != nil {
		return 0, err
	}

	// The counter must advance on every use. Authenticators that do not
	// implement counters report zero on both sides, which is accepted.
	if authData.Counter == 0 && credential.SignCount == 0 {
		return 0, nil
	}
	if authData.Counter <= credential.SignCount {
		return 0, fmt.Errorf("%w: counter went from %d to %d", ErrPossibleClone, credential.SignCount, authData.Counter)
	}

	return authData.Counter, nil
}
