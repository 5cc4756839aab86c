package utils

// REVISION is reported in every API envelope so clients can pin issues to a release.
const REVISION = "0.3.1"
