// Package catalogtest holds catalog fixtures for tests in other packages.
package catalogtest

// FixtureCSV is a small catalog with known aggregates, shared by package tests.
//
//	titles 13: 8 movies, 5 TV shows
//	ratings: TV-MA 6, PG-13 5, unrated 2 (row 9 had its runtime in the rating column)
//	primary countries: United States 9, India 1, Japan 1, South Africa 1, none 1
//	distinct countries 9, distinct genres 19
//	movie minutes: 73 74 90 97 103 104 106 125 (mean 96.5, median 100)
//	show seasons: 1 1 2 2 5
const FixtureCSV = `show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description
s1,Movie,Dick Johnson Is Dead,Kirsten Johnson,,United States,"September 25, 2021",2020,PG-13,90 min,Documentaries,"As her father nears the end of his life, filmmaker Kirsten Johnson stages his death in inventive and comical ways."
s2,TV Show,Blood & Water,,"Ama Qamata, Khosi Ngema, Gail Mabalane",South Africa,"September 24, 2021",2021,TV-MA,2 Seasons,"International TV Shows, TV Dramas, TV Mysteries","After crossing paths at a party, a Cape Town teen sets out to prove whether a private-school swimming star is her sister."
s3,TV Show,Ganglands,Julien Leclercq,"Sami Bouajila, Tracy Gotoas",,"September 24, 2021",2021,TV-MA,1 Season,"Crime TV Shows, International TV Shows, TV Action & Adventure","To protect his family from a powerful drug lord, skilled thief Mehdi and his expert team of robbers are pulled into a violent turf war."
s4,Movie,Sankofa,Haile Gerima,"Kofi Ghanaba, Oyafunmike Ogunlano","United States, Ghana, Burkina Faso, United Kingdom, Germany, Ethiopia","September 24, 2021",1993,TV-MA,125 min,"Dramas, Independent Movies, International Movies","On a photo shoot in Ghana, an American model slips back in time, becomes enslaved on a plantation and bears witness to the agony of her ancestral past."
s5,Movie,The Starling,Theodore Melfi,"Melissa McCarthy, Chris O'Dowd, Kevin Kline",United States,"September 24, 2021",2021,PG-13,104 min,"Comedies, Dramas","A woman adjusting to life after a loss contends with a feisty bird that's taken over her garden."
s6,TV Show,Kota Factory,,"Mayur More, Jitendra Kumar",India,"September 24, 2021",2021,TV-MA,2 Seasons,"International TV Shows, Romantic TV Shows, TV Comedies","In a city of coaching centers known to train India's finest collegiate minds, an earnest but unexceptional student and his friends navigate campus life."
s7,Movie,Grown Ups,Dennis Dugan,"Adam Sandler, Kevin James, Chris Rock",United States,"September 20, 2021",2010,PG-13,103 min,Comedies,"Mourning the loss of their beloved junior high basketball coach, five middle-aged pals reunite at a lake house."
s8,Movie,Dark Skies,Scott Stewart,"Keri Russell, Josh Hamilton",United States,"September 19, 2021",2013,PG-13,97 min,"Horror Movies, Sci-Fi & Fantasy","A family's idyllic suburban life shatters when an alien force invades their home."
s9,Movie,Louis C.K. 2017,Louis C.K.,Louis C.K.,United States,"April 4, 2017",2017,74 min,,Movies,"Louis C.K. muses on religion, eternal love, giving dogs drugs, email fights and more in this stand-up special."
s10,TV Show,Breaking Bad,,"Bryan Cranston, Aaron Paul",United States,"August 2, 2013",2013,TV-MA,5 Seasons,"Crime TV Shows, TV Dramas, TV Thrillers","A high school chemistry teacher dying of cancer teams with a former student to secure his family's future by manufacturing and selling crystal meth."
s11,Movie,Sierra Burgess Is A Loser,Ian Samuels,"Shannon Purser, Kristine Froseth",United States,"September 7, 2018",2018,PG-13,106 min,"Comedies, Romantic Movies","A case of mistaken identity leads to an unlikely romance for a smart but unpopular high schooler."
s12,Movie,Adam Sandler: 100% Fresh,Steve Brill,Adam Sandler,United States,"October 23, 2018",2018,TV-MA,73 min,Stand-Up Comedy,"From big zingers to musical numbers, Adam Sandler's stand-up special hits the road."
s13,TV Show,Night Watch Archives,,,Japan,,1985,,1 Season,"Anime Series, International TV Shows","A restored anime series about a night watchman who guards a museum of forgotten inventions."
`
