package larder

const Version = "0.1.0"
