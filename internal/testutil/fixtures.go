package testutil

// MethaneData is a read_data file (atom_style full) holding two methane
// molecules: C1 with H2-H5 and C6 with H7-H10. Type 1 is H, type 2 is C.
const MethaneData = `LAMMPS data file for two methanes

10 atoms
8 bonds
6 angles
0 dihedrals
0 impropers

2 atom types
1 bond types
1 angle types

0.0 10.0 xlo xhi
0.0 10.0 ylo yhi
0.0 10.0 zlo zhi

Masses

1 1.008 # H
2 12.011 # C

Atoms # full

1 1 2 -0.24 1.000 1.000 1.000
2 1 1 0.06 1.630 1.630 1.630
3 1 1 0.06 0.370 0.370 1.630
4 1 1 0.06 0.370 1.630 0.370
5 1 1 0.06 1.630 0.370 0.370
6 2 2 -0.24 4.000 4.000 4.000
7 2 1 0.06 4.630 4.630 4.630
8 2 1 0.06 3.370 3.370 4.630
9 2 1 0.06 3.370 4.630 3.370
10 2 1 0.06 4.630 3.370 3.370

Bonds

1 1 1 2
2 1 1 3
3 1 1 4
4 1 1 5
5 1 6 7
6 1 6 8
7 1 6 9
8 1 6 10

Angles

1 1 2 1 3
2 1 2 1 4
3 1 2 1 5
4 1 7 6 8
5 1 7 6 9
6 1 7 6 10
`

// EthaneData is the product of MethaneData after C1 and C6 bond: ethane
// (C1-C2, H6-H8 on C1, H3-H5 on C2) and a hydrogen molecule H9-H10.
const EthaneData = `LAMMPS data file for ethane and hydrogen

10 atoms
8 bonds
6 angles
0 dihedrals
0 impropers

2 atom types
1 bond types
1 angle types

0.0 10.0 xlo xhi
0.0 10.0 ylo yhi
0.0 10.0 zlo zhi

Masses

1 1.008 # H
2 12.011 # C

Atoms # full

1 1 2 -0.18 1.000 1.000 1.000
2 1 2 -0.18 2.540 1.000 1.000
3 1 1 0.06 2.900 2.030 1.000
4 1 1 0.06 2.900 0.480 1.890
5 1 1 0.06 2.900 0.480 0.110
6 1 1 0.06 0.640 2.030 1.000
7 1 1 0.06 0.640 0.480 1.890
8 1 1 0.06 0.640 0.480 0.110
9 2 1 0.00 6.000 6.000 6.000
10 2 1 0.00 6.740 6.000 6.000

Bonds

1 1 1 2
2 1 2 3
3 1 2 4
4 1 2 5
5 1 1 6
6 1 1 7
7 1 1 8
8 1 9 10

Angles

1 1 2 1 6
2 1 2 1 7
3 1 2 1 8
4 1 1 2 3
5 1 1 2 4
6 1 1 2 5
`

// MethaneElements is the element of each atom type in the methane and
// ethane fixtures.
var MethaneElements = []string{"H", "C"}
