package camera

// defaultConfigTOML is the built-in registry configuration: a static table
// mapping (make, model, mode) tuples to Camera descriptors, with a small
// representative subset of the vendor/model rows a production build would
// ship. Each [[cameras]] row may carry zero or more [[cameras.aliases]]
// (alternate make/model spellings for the same sensor) and zero or more
// [[cameras.modes]] (file-size/shape discriminators).
const defaultConfigTOML = `
[[cameras]]
make = "Canon"
model = "Canon EOS 5D Mark IV"
clean_make = "Canon"
clean_model = "EOS 5D Mark IV"
whitepoint = 15000
blackpoint = 2048
color_pattern = "RGGB"
bps = 14
crops = [0, 0, 4100, 6288]
color_matrix = [0.6847, -0.0127, -0.0644, -0.4389, 1.2178, 0.2570, -0.0371, 0.0871, 0.7755]
illuminant = 21

[[cameras]]
make = "NIKON CORPORATION"
model = "NIKON D850"
clean_make = "Nikon"
clean_model = "D850"
whitepoint = 16383
blackpoint = 600
color_pattern = "RGGB"
bps = 14
crops = [0, 0, 5792, 8704]
hints = ["msb32"]
color_matrix = [0.9025, -0.3267, -0.0568, -0.4743, 1.2481, 0.2508, -0.0610, 0.1075, 0.7148]
illuminant = 21

[[cameras]]
make = "SONY"
model = "ILCE-7M3"
clean_make = "Sony"
clean_model = "A7 III"
whitepoint = 16000
blackpoint = 512
color_pattern = "RGGB"
bps = 14
crops = [0, 0, 4016, 6048]
color_matrix = [0.7284, -0.1954, -0.0835, -0.4029, 1.1999, 0.2269, -0.0515, 0.1015, 0.7285]
illuminant = 21

[[cameras]]
make = "OLYMPUS CORPORATION"
model = "E-M1MARK III"
clean_make = "Olympus"
clean_model = "E-M1 Mark III"
whitepoint = 4095
blackpoint = 0
color_pattern = "RGGB"
bps = 12
crops = [0, 0, 3888, 5208]
hints = ["msb32"]
color_matrix = [0.7115, -0.1755, -0.0605, -0.4542, 1.2514, 0.2157, -0.0813, 0.1445, 0.5931]
illuminant = 21

[[cameras]]
make = "FUJIFILM"
model = "X-T4"
clean_make = "Fujifilm"
clean_model = "X-T4"
whitepoint = 16383
blackpoint = 1024
color_pattern = "GRGRBGBGGRGRBGBGGBGBRGRGGBGBRGRGGRGRBGBGGRGRBGBGGBGBRGRGGBGBRGRG"
bps = 14
crops = [0, 0, 4160, 6240]
hints = ["fuji_rotation"]
color_matrix = [1.0305, -0.5095, -0.0567, -0.4917, 1.2583, 0.2489, -0.0506, 0.1085, 0.6820]
illuminant = 21

[[cameras]]
make = "Panasonic"
model = "DC-GH5"
clean_make = "Panasonic"
clean_model = "Lumix GH5"
whitepoint = 4095
blackpoint = 128
color_pattern = "RGGB"
bps = 12
crops = [0, 0, 3904, 5184]
color_matrix = [0.7771, -0.3020, -0.0629, -0.5406, 1.3005, 0.2457, -0.0594, 0.1921, 0.5654]
illuminant = 21

[[cameras]]
make = "PENTAX"
model = "PENTAX K-1"
clean_make = "Pentax"
clean_model = "K-1"
whitepoint = 16383
blackpoint = 512
color_pattern = "RGGB"
bps = 14
crops = [0, 0, 4950, 7392]
color_matrix = [0.8228, -0.2089, -0.0624, -0.4853, 1.2502, 0.2570, -0.0522, 0.1087, 0.7523]
illuminant = 21

[[cameras]]
make = "SAMSUNG"
model = "NX1"
clean_make = "Samsung"
clean_model = "NX1"
whitepoint = 4095
blackpoint = 0
color_pattern = "RGGB"
bps = 12
crops = [0, 0, 4176, 6192]
color_matrix = [0.7977, -0.2767, -0.0634, -0.4876, 1.2580, 0.2716, -0.0591, 0.1289, 0.6598]
illuminant = 21

[[cameras]]
make = "Minolta Co., Ltd."
model = "DiMAGE A1"
clean_make = "Minolta"
clean_model = "DiMAGE A1"
whitepoint = 4095
blackpoint = 0
color_pattern = "RGGB"
bps = 12
crops = [0, 0, 1704, 2272]

[[cameras]]
make = "CHDK"
model = "naked"
clean_make = "CHDK"
clean_model = "naked"
color_pattern = "RGGB"
bps = 10

  [[cameras.modes]]
  mode = "3947520"
  filesize = 3947520
`
