package tray

// iconData is a 16x16 PNG used as the tray template icon.
var iconData = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0xf3, 0xff, 0x61, 0x00, 0x00, 0x00,
	0x2e, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0x60, 0x18, 0x94, 0xc0,
	0xe5, 0x9a, 0xce, 0x7f, 0x6c, 0x98, 0x6c, 0x8d, 0x44, 0x1b, 0x44, 0x91,
	0x01, 0x84, 0x14, 0x11, 0x34, 0x84, 0x18, 0x27, 0x8e, 0x24, 0x03, 0xc8,
	0x0a, 0xc4, 0x81, 0x4f, 0x07, 0x54, 0x49, 0xca, 0x03, 0x02, 0x00, 0xf4,
	0xf7, 0xd0, 0xcd, 0x0e, 0xe7, 0x0d, 0xca, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,}
