package domain

// PlatformFor exposes platformFor for tests.
var PlatformFor = platformFor
