package domain

// KeyPrefix namespaces every storage key. Overridden from
// storage.key_prefix at startup.
var KeyPrefix = "groupdex:"
